// Package workflow coordinates the minutes pipeline: it owns stage
// transitions and invariants, delegating persistence to the record
// store and heavy lifting to the transcriber and extractor.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/extractor"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/logging"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/pipeline"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services/transcriber"
)

// Orchestrator drives recordings through the pipeline stages. All
// mutations go through the store's per-record Update so concurrent
// requests on the same recording serialize.
type Orchestrator struct {
	cfg         *config.Config
	store       pipeline.Store
	transcriber transcriber.Client
	extractor   *extractor.Extractor
	logger      *slog.Logger
}

// NewOrchestrator wires the pipeline dependencies together.
func NewOrchestrator(
	cfg *config.Config,
	store pipeline.Store,
	client transcriber.Client,
	ex *extractor.Extractor,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		cfg:         cfg,
		store:       store,
		transcriber: client,
		extractor:   ex,
		logger:      logger.With(logging.String(logging.FieldComponent, "workflow")),
	}
}

// Store exposes the underlying record store for read-only callers.
func (o *Orchestrator) Store() pipeline.Store {
	return o.store
}

// Resolve returns the record for an id, or a not-found error.
func (o *Orchestrator) Resolve(ctx context.Context, id string) (*pipeline.Record, error) {
	rec, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: record %q", services.ErrNotFound, id)
	}
	return rec, nil
}

// ResolveByFilename returns the record stored under filename, or a
// not-found error.
func (o *Orchestrator) ResolveByFilename(ctx context.Context, filename string) (*pipeline.Record, error) {
	rec, err := o.store.FindByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: recording %q", services.ErrNotFound, filename)
	}
	return rec, nil
}

func (o *Orchestrator) stageContext(ctx context.Context, id, stage string) (context.Context, *slog.Logger) {
	ctx = services.WithRecordID(ctx, id)
	ctx = services.WithStage(ctx, stage)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	return ctx, logging.WithContext(ctx, o.logger)
}
