// Package transcriber converts uploaded audio into transcript text by
// shelling out to an external speech-to-text command.
package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
)

// commandContext is swapped in tests to avoid invoking real binaries.
var commandContext = exec.CommandContext

// Client produces a transcript for an audio file. Implementations must
// not mutate any shared state; failures leave the recording untouched.
type Client interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// FromConfig selects the engine named by the configuration. The
// reserved command "stub" yields the built-in canned engine.
func FromConfig(cfg *config.Config) Client {
	if strings.EqualFold(cfg.Transcriber.Command, "stub") {
		return &Stub{}
	}
	return NewCLI(cfg.Transcriber)
}

// CLI runs an external speech-to-text command and reads the transcript
// from its standard output.
type CLI struct {
	command string
	args    []string
	timeout time.Duration
}

// NewCLI builds a subprocess-backed client from transcriber settings.
func NewCLI(cfg config.Transcriber) *CLI {
	return &CLI{
		command: cfg.Command,
		args:    append([]string(nil), cfg.Args...),
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

func (c *CLI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if strings.TrimSpace(audioPath) == "" {
		return "", services.Wrap(services.ErrValidation, "transcription", "transcribe", "audio path must be set", nil)
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), c.args...), audioPath)
	cmd := commandContext(runCtx, c.command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTranscriptionFailed, "transcription", "transcribe",
				fmt.Sprintf("engine timed out after %s", c.timeout), runCtx.Err())
		}
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			detail = err.Error()
		}
		return "", services.Wrap(services.ErrTranscriptionFailed, "transcription", "transcribe", detail, err)
	}

	return strings.TrimSpace(string(output)), nil
}

// StubTranscript is returned by the canned engine when no override is
// set. It contains keywords so downstream extraction has something to
// find during demos and tests.
const StubTranscript = "This is a stub transcript. Please review the action items and assign owners before the deadline."

// Stub is a canned engine for environments without a speech-to-text
// toolchain installed.
type Stub struct {
	Text string
	Err  error
}

func (s *Stub) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if s.Text != "" {
		return s.Text, nil
	}
	return StubTranscript, nil
}
