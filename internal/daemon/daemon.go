// Package daemon runs the minutes service: it enforces single-instance
// execution and exposes the pipeline over HTTP.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/logging"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/pipeline"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/workflow"
)

// Daemon owns the HTTP API server and the instance lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  pipeline.Store
	orch   *workflow.Orchestrator

	lockPath string
	lock     *flock.Flock

	api *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status reports daemon runtime information.
type Status struct {
	Running      bool
	StoreBackend string
	UploadDir    string
	MinutesDir   string
	LockFilePath string
	Stages       map[pipeline.Stage]int
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store pipeline.Store, orch *workflow.Orchestrator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || orch == nil {
		return nil, errors.New("daemon requires config, store, and orchestrator")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "minutesd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		orch:     orch,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = srv
	return d, nil
}

// Start acquires the instance lock and brings up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another minutes daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.api.start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("minutes daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("minutes daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the API server's bound address once started.
func (d *Daemon) Addr() string {
	return d.api.addr()
}

// Status gathers runtime information for the status endpoint.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		StoreBackend: d.cfg.Store.Backend,
		UploadDir:    d.cfg.Paths.UploadDir,
		MinutesDir:   d.cfg.Paths.MinutesDir,
		LockFilePath: d.lockPath,
	}
	if stats, err := d.store.Stats(ctx); err == nil {
		status.Stages = stats
	} else {
		d.logger.Warn("failed to gather store stats", logging.Error(err))
	}
	return status
}
