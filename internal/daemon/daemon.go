package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"marquee/internal/config"
	"marquee/internal/enrichment"
	"marquee/internal/logging"
)

// Sweeper runs one enrichment pass over the catalog.
type Sweeper interface {
	RunEnrichment(ctx context.Context) enrichment.Summary
}

// Status summarizes daemon state for CLI reporting.
type Status struct {
	Running      bool                `json:"running"`
	LockFilePath string              `json:"lockFilePath"`
	Interval     time.Duration       `json:"interval"`
	Sweeps       int64               `json:"sweeps"`
	LastSweepAt  time.Time           `json:"lastSweepAt,omitzero"`
	LastSweep    *enrichment.Summary `json:"lastSweep,omitempty"`
}

// Daemon schedules enrichment sweeps.
type Daemon struct {
	logger   *slog.Logger
	sweeper  Sweeper
	interval time.Duration
	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	sweeps  atomic.Int64

	lifecycle sync.Mutex
	mu        sync.Mutex
	sweepMu   sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	last      *enrichment.Summary
	lastSweep time.Time
}

// New constructs a daemon for the given configuration.
func New(cfg *config.Config, sweeper Sweeper, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if sweeper == nil {
		return nil, errors.New("sweeper is required")
	}
	interval := cfg.SweepInterval()
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		logger:   logging.NewComponentLogger(logger, "daemon"),
		sweeper:  sweeper,
		interval: interval,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the sweep loop.
func (d *Daemon) Start(ctx context.Context) error {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !ok {
		return errors.New("another marquee daemon instance is already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.mu.Lock()
	d.cancel = cancel
	d.done = done
	d.mu.Unlock()
	d.running.Store(true)

	d.logger.Info("marquee daemon started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.Duration("interval", d.interval),
		logging.String("lock_path", d.lockPath),
	)
	go d.loop(loopCtx, done)
	return nil
}

// Stop halts the sweep loop, waits for an in-flight sweep to notice
// cancellation and releases the lock.
func (d *Daemon) Stop() {
	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()
	if !d.running.Load() {
		return
	}
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.mu.Unlock()
	cancel()
	<-done
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_unlock_failed"),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no daemon is running"),
		)
	}
	d.running.Store(false)
	d.logger.Info("marquee daemon stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
}

// Close stops the daemon and releases the lock file handle.
func (d *Daemon) Close() error {
	d.Stop()
	return d.lock.Close()
}

// Done is closed when the sweep loop exits. It is nil before the first
// Start.
func (d *Daemon) Done() <-chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

// RunOnce performs a single sweep synchronously. Sweeps never overlap: a
// call made while the loop is mid-sweep waits for it to finish.
func (d *Daemon) RunOnce(ctx context.Context) enrichment.Summary {
	d.sweepMu.Lock()
	defer d.sweepMu.Unlock()

	summary := d.sweeper.RunEnrichment(ctx)
	d.sweeps.Add(1)

	d.mu.Lock()
	d.last = &summary
	d.lastSweep = time.Now()
	d.mu.Unlock()

	if failed := summary.PublicFailed + summary.PlaceholdersFailed; failed > 0 {
		logging.WarnWithContext(d.logger, "sweep finished with failures", "sweep_partial",
			logging.String(logging.FieldSweepID, summary.SweepID),
			logging.Int("failed", failed),
			logging.String(logging.FieldImpact, "failed titles are retried on the next sweep"),
		)
	}
	return summary
}

// Status reports the current daemon state.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	status := Status{
		Running:      d.running.Load(),
		LockFilePath: d.lockPath,
		Interval:     d.interval,
		Sweeps:       d.sweeps.Load(),
		LastSweepAt:  d.lastSweep,
	}
	if d.last != nil {
		last := *d.last
		status.LastSweep = &last
	}
	return status
}

func (d *Daemon) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.RunOnce(ctx)
		}
	}
}
