package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/extractor"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/logging"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/minutes"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/pipeline"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services/transcriber"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/testsupport"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/workflow"
)

func newOrchestrator(t *testing.T, engine transcriber.Client) (*workflow.Orchestrator, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if engine == nil {
		engine = &transcriber.Stub{}
	}
	orch := workflow.NewOrchestrator(cfg, store, engine, extractor.New(cfg.Extractor.Keywords), logging.NewNop())
	return orch, cfg
}

func validMetadata() minutes.Metadata {
	return minutes.Metadata{
		Title:     "Weekly Sync",
		Date:      "2026-08-30",
		Organizer: "Dana",
		Attendees: []string{"Dana", "Sam"},
	}
}

func TestRegisterUpload(t *testing.T) {
	orch, _ := newOrchestrator(t, nil)
	ctx := context.Background()

	rec, err := orch.RegisterUpload(ctx, "1700000000000-standup.mp3", "standup.mp3", "/tmp/standup.mp3")
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("RegisterUpload did not assign an id")
	}
	if rec.Stage != pipeline.StageUploaded {
		t.Fatalf("stage = %s, want uploaded", rec.Stage)
	}
	if rec.DisplayTitle != "Standup" {
		t.Fatalf("display title = %q", rec.DisplayTitle)
	}

	if _, err := orch.RegisterUpload(ctx, "1700000000000-standup.mp3", "standup.mp3", "/tmp/standup.mp3"); !errors.Is(err, services.ErrDuplicateRecording) {
		t.Fatalf("duplicate upload error = %v, want ErrDuplicateRecording", err)
	}

	other, err := orch.RegisterUpload(ctx, "1700000000001-retro.mp3", "retro.mp3", "/tmp/retro.mp3")
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	if other.ID == rec.ID {
		t.Fatalf("distinct uploads share id %q", rec.ID)
	}
}

func TestRunTranscriptionStoresRawTranscript(t *testing.T) {
	orch, _ := newOrchestrator(t, &transcriber.Stub{Text: "We agreed to review the plan."})
	ctx := context.Background()

	rec, err := orch.RegisterUpload(ctx, "1-a.mp3", "a.mp3", "/tmp/a.mp3")
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}

	updated, err := orch.RunTranscription(ctx, rec.ID)
	if err != nil {
		t.Fatalf("RunTranscription: %v", err)
	}
	if updated.RawTranscript != "We agreed to review the plan." {
		t.Fatalf("raw transcript = %q", updated.RawTranscript)
	}
	if updated.Stage != pipeline.StageTranscribed {
		t.Fatalf("stage = %s, want transcribed", updated.Stage)
	}
}

func TestRunTranscriptionFailureLeavesRecordUntouched(t *testing.T) {
	engineErr := services.Wrap(services.ErrTranscriptionFailed, "transcription", "transcribe", "engine exploded", nil)
	orch, _ := newOrchestrator(t, &transcriber.Stub{Err: engineErr})
	ctx := context.Background()

	rec, err := orch.RegisterUpload(ctx, "1-a.mp3", "a.mp3", "/tmp/a.mp3")
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}

	if _, err := orch.RunTranscription(ctx, rec.ID); !errors.Is(err, services.ErrTranscriptionFailed) {
		t.Fatalf("error = %v, want ErrTranscriptionFailed", err)
	}

	got, err := orch.Resolve(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.Stage != pipeline.StageUploaded || got.RawTranscript != "" {
		t.Fatalf("failed transcription mutated record: %+v", got)
	}
}

func TestSaveEditGuards(t *testing.T) {
	orch, _ := newOrchestrator(t, nil)
	ctx := context.Background()

	rec, err := orch.RegisterUpload(ctx, "1-a.mp3", "a.mp3", "/tmp/a.mp3")
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}

	if _, err := orch.SaveEdit(ctx, rec.ID, "   \n"); !errors.Is(err, services.ErrEmptyTranscript) {
		t.Fatalf("empty edit error = %v, want ErrEmptyTranscript", err)
	}
	if _, err := orch.SaveEdit(ctx, rec.ID, "my edit"); !errors.Is(err, services.ErrNoTranscript) {
		t.Fatalf("edit before transcription error = %v, want ErrNoTranscript", err)
	}
	if _, err := orch.SaveEdit(ctx, "missing-id", "my edit"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("edit of missing record error = %v, want ErrNotFound", err)
	}
}

func TestSaveEditSupersedesRawTranscript(t *testing.T) {
	orch, _ := newOrchestrator(t, &transcriber.Stub{Text: "raw words"})
	ctx := context.Background()

	rec, _ := orch.RegisterUpload(ctx, "1-a.mp3", "a.mp3", "/tmp/a.mp3")
	if _, err := orch.RunTranscription(ctx, rec.ID); err != nil {
		t.Fatalf("RunTranscription: %v", err)
	}

	updated, err := orch.SaveEdit(ctx, rec.ID, "polished words with a review task")
	if err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}
	if updated.RawTranscript != "raw words" {
		t.Fatalf("edit overwrote raw transcript: %q", updated.RawTranscript)
	}
	if updated.Transcript() != "polished words with a review task" {
		t.Fatalf("Transcript() = %q, want the edit", updated.Transcript())
	}
	if updated.Stage != pipeline.StageEdited {
		t.Fatalf("stage = %s, want edited", updated.Stage)
	}
}

func TestStageIsMonotonic(t *testing.T) {
	orch, _ := newOrchestrator(t, &transcriber.Stub{Text: "first pass"})
	ctx := context.Background()

	rec, _ := orch.RegisterUpload(ctx, "1-a.mp3", "a.mp3", "/tmp/a.mp3")
	if _, err := orch.RunTranscription(ctx, rec.ID); err != nil {
		t.Fatalf("RunTranscription: %v", err)
	}
	if _, err := orch.SaveEdit(ctx, rec.ID, "the edit"); err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}

	// Re-running transcription refreshes the raw text but keeps the
	// edited stage.
	updated, err := orch.RunTranscription(ctx, rec.ID)
	if err != nil {
		t.Fatalf("RunTranscription (rerun): %v", err)
	}
	if updated.Stage != pipeline.StageEdited {
		t.Fatalf("stage after rerun = %s, want edited", updated.Stage)
	}
	if updated.Transcript() != "the edit" {
		t.Fatalf("edit no longer supersedes raw: %q", updated.Transcript())
	}
}

func TestExtractActions(t *testing.T) {
	orch, _ := newOrchestrator(t, &transcriber.Stub{Text: "Review the budget. We told jokes."})
	ctx := context.Background()

	rec, _ := orch.RegisterUpload(ctx, "1-a.mp3", "a.mp3", "/tmp/a.mp3")

	if _, err := orch.ExtractActions(ctx, rec.ID); !errors.Is(err, services.ErrNoTranscript) {
		t.Fatalf("extract before transcript error = %v, want ErrNoTranscript", err)
	}

	if _, err := orch.RunTranscription(ctx, rec.ID); err != nil {
		t.Fatalf("RunTranscription: %v", err)
	}
	updated, err := orch.ExtractActions(ctx, rec.ID)
	if err != nil {
		t.Fatalf("ExtractActions: %v", err)
	}
	if len(updated.ActionItems) != 1 || updated.ActionItems[0] != "Review the budget" {
		t.Fatalf("action items = %v", updated.ActionItems)
	}
	if updated.Stage != pipeline.StageActionsExtracted {
		t.Fatalf("stage = %s, want actions_extracted", updated.Stage)
	}

	// A fresh extraction replaces the list wholesale.
	if _, err := orch.SaveEdit(ctx, rec.ID, "Nothing eventful happened"); err != nil {
		t.Fatalf("SaveEdit: %v", err)
	}
	updated, err = orch.ExtractActions(ctx, rec.ID)
	if err != nil {
		t.Fatalf("ExtractActions (rerun): %v", err)
	}
	if len(updated.ActionItems) != 0 {
		t.Fatalf("action items after rerun = %v, want empty", updated.ActionItems)
	}
}

func TestComposeMinutesFullPipeline(t *testing.T) {
	orch, cfg := newOrchestrator(t, &transcriber.Stub{Text: "Assign the rollout to Sam. We also chatted."})
	ctx := context.Background()

	rec, _ := orch.RegisterUpload(ctx, "1700000000000-rollout.mp3", "rollout.mp3", "/tmp/rollout.mp3")
	if _, err := orch.RunTranscription(ctx, rec.ID); err != nil {
		t.Fatalf("RunTranscription: %v", err)
	}
	if _, err := orch.ExtractActions(ctx, rec.ID); err != nil {
		t.Fatalf("ExtractActions: %v", err)
	}

	updated, err := orch.ComposeMinutes(ctx, rec.ID, workflow.ComposeInput{Metadata: validMetadata()})
	if err != nil {
		t.Fatalf("ComposeMinutes: %v", err)
	}
	if updated.Stage != pipeline.StageMinutesGenerated {
		t.Fatalf("stage = %s, want minutes_generated", updated.Stage)
	}
	wantPath := filepath.Join(cfg.Paths.MinutesDir, "1700000000000-rollout.txt")
	if updated.MinutesPath != wantPath {
		t.Fatalf("minutes path = %q, want %q", updated.MinutesPath, wantPath)
	}

	data, err := os.ReadFile(updated.MinutesPath)
	if err != nil {
		t.Fatalf("read minutes: %v", err)
	}
	doc := string(data)
	for _, want := range []string{
		"Meeting Title: Weekly Sync",
		"--- Transcript ---",
		"Assign the rollout to Sam. We also chatted.",
		"- Assign the rollout to Sam",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("minutes document missing %q:\n%s", want, doc)
		}
	}
}

func TestComposeMinutesGuards(t *testing.T) {
	orch, _ := newOrchestrator(t, &transcriber.Stub{Text: "Some words"})
	ctx := context.Background()

	rec, _ := orch.RegisterUpload(ctx, "1-a.mp3", "a.mp3", "/tmp/a.mp3")

	if _, err := orch.ComposeMinutes(ctx, rec.ID, workflow.ComposeInput{}); !errors.Is(err, services.ErrIncompleteMetadata) {
		t.Fatalf("missing metadata error = %v, want ErrIncompleteMetadata", err)
	}
	if _, err := orch.ComposeMinutes(ctx, rec.ID, workflow.ComposeInput{Metadata: validMetadata()}); !errors.Is(err, services.ErrNoTranscript) {
		t.Fatalf("compose before transcript error = %v, want ErrNoTranscript", err)
	}

	if _, err := orch.RunTranscription(ctx, rec.ID); err != nil {
		t.Fatalf("RunTranscription: %v", err)
	}
	if _, err := orch.ComposeMinutes(ctx, rec.ID, workflow.ComposeInput{Metadata: validMetadata()}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("compose before extraction error = %v, want ErrValidation", err)
	}
	if _, err := orch.ComposeMinutes(ctx, "missing-id", workflow.ComposeInput{Metadata: validMetadata()}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("compose of missing record error = %v, want ErrNotFound", err)
	}
}

func TestComposeMinutesWithOverrides(t *testing.T) {
	orch, _ := newOrchestrator(t, nil)
	ctx := context.Background()

	rec, _ := orch.RegisterUpload(ctx, "1-a.mp3", "a.mp3", "/tmp/a.mp3")

	updated, err := orch.ComposeMinutes(ctx, rec.ID, workflow.ComposeInput{
		Metadata:        validMetadata(),
		Transcript:      "Approved transcript with a deadline",
		Actions:         []string{"Hit the deadline"},
		ActionsProvided: true,
	})
	if err != nil {
		t.Fatalf("ComposeMinutes: %v", err)
	}
	if updated.RawTranscript != "Approved transcript with a deadline" {
		t.Fatalf("override transcript not stored: %q", updated.RawTranscript)
	}
	if updated.Stage != pipeline.StageMinutesGenerated {
		t.Fatalf("stage = %s, want minutes_generated", updated.Stage)
	}

	data, err := os.ReadFile(updated.MinutesPath)
	if err != nil {
		t.Fatalf("read minutes: %v", err)
	}
	if !strings.Contains(string(data), "- Hit the deadline") {
		t.Fatalf("minutes document missing provided action:\n%s", data)
	}
}

func TestComposeMinutesEmptyActionsRendersMarker(t *testing.T) {
	orch, _ := newOrchestrator(t, &transcriber.Stub{Text: "Nothing eventful happened"})
	ctx := context.Background()

	rec, _ := orch.RegisterUpload(ctx, "1-a.mp3", "a.mp3", "/tmp/a.mp3")
	if _, err := orch.RunTranscription(ctx, rec.ID); err != nil {
		t.Fatalf("RunTranscription: %v", err)
	}
	if _, err := orch.ExtractActions(ctx, rec.ID); err != nil {
		t.Fatalf("ExtractActions: %v", err)
	}

	updated, err := orch.ComposeMinutes(ctx, rec.ID, workflow.ComposeInput{Metadata: validMetadata()})
	if err != nil {
		t.Fatalf("ComposeMinutes: %v", err)
	}
	data, err := os.ReadFile(updated.MinutesPath)
	if err != nil {
		t.Fatalf("read minutes: %v", err)
	}
	if !strings.Contains(string(data), minutes.NoActionItemsMarker) {
		t.Fatalf("minutes document missing no-items marker:\n%s", data)
	}
}

func TestExtractFromText(t *testing.T) {
	orch, _ := newOrchestrator(t, nil)
	got := orch.ExtractFromText("Finish the report. Lunch was good.")
	if len(got) != 1 || got[0] != "Finish the report" {
		t.Fatalf("ExtractFromText = %v", got)
	}
}
