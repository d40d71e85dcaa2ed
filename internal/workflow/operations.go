package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/logging"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/minutes"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/pipeline"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
)

// RegisterUpload records a stored upload and enters it into the
// pipeline at the uploaded stage.
func (o *Orchestrator) RegisterUpload(ctx context.Context, filename, originalName, audioPath string) (*pipeline.Record, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, services.Wrap(services.ErrValidation, "upload", "register", "stored filename must be set", nil)
	}

	rec := &pipeline.Record{
		ID:           uuid.NewString(),
		Filename:     filename,
		OriginalName: originalName,
		DisplayTitle: minutes.DeriveTitle(originalName),
		AudioPath:    audioPath,
		Stage:        pipeline.StageUploaded,
	}
	_, logger := o.stageContext(ctx, rec.ID, "upload")

	created, err := o.store.Create(ctx, rec)
	if err != nil {
		return nil, err
	}
	logger.Info("recording registered",
		logging.String("filename", created.Filename),
		logging.String("title", created.DisplayTitle))
	return created, nil
}

// RunTranscription invokes the speech-to-text engine and stores the
// raw transcript. On engine failure the record is left untouched.
func (o *Orchestrator) RunTranscription(ctx context.Context, id string) (*pipeline.Record, error) {
	rec, err := o.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx, logger := o.stageContext(ctx, id, "transcription")

	logger.Info("transcription started", logging.String("audio_path", rec.AudioPath))
	started := time.Now()
	text, err := o.transcriber.Transcribe(ctx, rec.AudioPath)
	if err != nil {
		logger.Error("transcription failed", logging.Error(err))
		return nil, err
	}

	updated, err := o.store.Update(ctx, id, func(r *pipeline.Record) error {
		r.RawTranscript = text
		r.Advance(pipeline.StageTranscribed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("transcription completed",
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("transcript_chars", len(text)))
	return updated, nil
}

// SaveEdit stores a reviewed transcript. The edit supersedes the raw
// transcript for every downstream step but never replaces it.
func (o *Orchestrator) SaveEdit(ctx context.Context, id, text string) (*pipeline.Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrEmptyTranscript, "edit", "save", "edited transcript must not be empty", nil)
	}
	_, logger := o.stageContext(ctx, id, "edit")

	updated, err := o.store.Update(ctx, id, func(r *pipeline.Record) error {
		if r.RawTranscript == "" {
			return services.Wrap(services.ErrNoTranscript, "edit", "save", "recording has no transcript to edit", nil)
		}
		r.EditedTranscript = text
		r.Advance(pipeline.StageEdited)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("edited transcript saved", logging.Int("transcript_chars", len(text)))
	return updated, nil
}

// ExtractActions classifies the current transcript's sentences and
// replaces the record's action-item list with the result.
func (o *Orchestrator) ExtractActions(ctx context.Context, id string) (*pipeline.Record, error) {
	_, logger := o.stageContext(ctx, id, "extraction")

	updated, err := o.store.Update(ctx, id, func(r *pipeline.Record) error {
		transcript := r.Transcript()
		if transcript == "" {
			return services.Wrap(services.ErrNoTranscript, "extraction", "extract", "recording has no transcript", nil)
		}
		r.ActionItems = o.extractor.Extract(transcript)
		r.Advance(pipeline.StageActionsExtracted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("action items extracted", logging.Int("count", len(updated.ActionItems)))
	return updated, nil
}

// ExtractFromText runs keyword extraction over caller-supplied text
// without touching any stored record.
func (o *Orchestrator) ExtractFromText(text string) []string {
	return o.extractor.Extract(text)
}

// ComposeInput carries the metadata for a minutes document plus
// optional caller-approved overrides for the transcript and action
// items. Overrides are persisted before composition so the record
// always reflects what the document was built from.
type ComposeInput struct {
	Metadata        minutes.Metadata
	Transcript      string
	Actions         []string
	ActionsProvided bool
}

// ComposeMinutes renders and writes the minutes document for a
// recording, then records its location.
func (o *Orchestrator) ComposeMinutes(ctx context.Context, id string, input ComposeInput) (*pipeline.Record, error) {
	if err := input.Metadata.Validate(); err != nil {
		return nil, err
	}
	_, logger := o.stageContext(ctx, id, "minutes")

	updated, err := o.store.Update(ctx, id, func(r *pipeline.Record) error {
		if transcript := strings.TrimSpace(input.Transcript); transcript != "" {
			// A caller-supplied transcript becomes the source text when the
			// engine never ran, otherwise it lands as the reviewed edit.
			if r.RawTranscript == "" {
				r.RawTranscript = input.Transcript
				r.Advance(pipeline.StageTranscribed)
			} else {
				r.EditedTranscript = input.Transcript
				r.Advance(pipeline.StageEdited)
			}
		}
		if input.ActionsProvided {
			items := make([]string, len(input.Actions))
			copy(items, input.Actions)
			r.ActionItems = items
			r.Advance(pipeline.StageActionsExtracted)
		}

		if r.Transcript() == "" {
			return services.Wrap(services.ErrNoTranscript, "minutes", "compose", "recording has no transcript", nil)
		}
		if !r.Stage.AtLeast(pipeline.StageActionsExtracted) {
			return services.Wrap(services.ErrValidation, "minutes", "compose", "action items have not been extracted", nil)
		}

		document := minutes.Compose(r.Transcript(), r.ActionItems, input.Metadata)
		name := minutes.DocumentName(r.Filename)
		path := filepath.Join(o.cfg.Paths.MinutesDir, name)
		if err := os.MkdirAll(o.cfg.Paths.MinutesDir, 0o755); err != nil {
			return fmt.Errorf("create minutes directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
			return fmt.Errorf("write minutes document: %w", err)
		}
		r.MinutesPath = path
		r.Advance(pipeline.StageMinutesGenerated)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("minutes generated", logging.String("minutes_path", updated.MinutesPath))
	return updated, nil
}
