package main

import (
	"fmt"
	"log/slog"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/daemon"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/extractor"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/pipeline"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services/transcriber"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/workflow"
)

// bootstrap assembles the store, pipeline orchestrator, and daemon.
func bootstrap(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	store, err := pipeline.OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	orch := workflow.NewOrchestrator(
		cfg,
		store,
		transcriber.FromConfig(cfg),
		extractor.New(cfg.Extractor.Keywords),
		logger,
	)

	d, err := daemon.New(cfg, store, orch, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return d, nil
}
