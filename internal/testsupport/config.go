// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/pipeline"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per
// test. The stub transcriber engine and in-memory store are the
// defaults so tests never touch external tools.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.UploadDir = filepath.Join(base, "uploads")
	cfg.Paths.MinutesDir = filepath.Join(base, "minutes")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Transcriber.Command = "stub"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithStoreBackend overrides the record store backend.
func WithStoreBackend(backend string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Store.Backend = backend
	}
}

// WithKeywords overrides the extractor keyword set.
func WithKeywords(keywords ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Extractor.Keywords = keywords
	}
}

// MustOpenStore opens the configured store and closes it when the test
// finishes.
func MustOpenStore(t testing.TB, cfg *config.Config) pipeline.Store {
	t.Helper()
	store, err := pipeline.OpenStore(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedRecord inserts a record and fails the test on error.
func SeedRecord(t testing.TB, store pipeline.Store, rec *pipeline.Record) *pipeline.Record {
	t.Helper()
	created, err := store.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return created
}
