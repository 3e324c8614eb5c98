// Package daemonrun hosts the marqueed process lifecycle: log files,
// engine wiring, the daemon loop, and signal handling.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"marquee/internal/config"
	"marquee/internal/daemon"
	"marquee/internal/engine"
	"marquee/internal/logging"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	// Once runs a single sweep and exits instead of looping.
	Once bool
}

// Run starts the marquee daemon runtime loop and blocks until cmdCtx is
// cancelled or SIGINT/SIGTERM arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("marqueed-%s.log", runID))
	level := opts.LogLevel
	if strings.TrimSpace(level) == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
		Development:      opts.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update marqueed.log link: %v\n", err)
	}

	logProviderSnapshot(logger, cfg)

	pidPath := filepath.Join(cfg.Paths.DataDir, "marqueed.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	eng, err := engine.Open(signalCtx, cfg, logger)
	if err != nil {
		logger.Error("open engine", logging.Error(err))
		return err
	}
	defer eng.Close()

	d, err := daemon.New(cfg, eng.Service, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if opts.Once {
		summary := d.RunOnce(signalCtx)
		logger.Info("single sweep complete",
			logging.String(logging.FieldSweepID, summary.SweepID),
			logging.Int("public_refreshed", summary.PublicRefreshed),
			logging.Int("placeholders_updated", summary.PlaceholdersUpdated),
		)
		return nil
	}

	if err := d.Start(signalCtx); err != nil {
		logger.Warn("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "stop the other marqueed instance or remove "+cfg.LockPath()),
			logging.String(logging.FieldImpact, "catalog will not be enriched"),
		)
		return err
	}

	<-signalCtx.Done()
	logger.Info("marquee daemon shutting down")
	return nil
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "marqueed.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logProviderSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("provider snapshot",
		logging.String(logging.FieldEventType, "provider_snapshot"),
		logging.Bool("tmdb_enabled", cfg.TMDB.Enabled),
		logging.Bool("tmdb_key_present", strings.TrimSpace(cfg.TMDB.APIKey) != ""),
		logging.Bool("omdb_enabled", cfg.OMDb.Enabled),
		logging.Bool("omdb_key_present", strings.TrimSpace(cfg.OMDb.APIKey) != ""),
		logging.Bool("csfd_enabled", cfg.CSFD.Enabled),
		logging.String("catalog_driver", cfg.Catalog.Driver),
		logging.Duration("sweep_interval", cfg.SweepInterval()),
		logging.Duration("stale_after", cfg.StaleAfter()),
		logging.Int("workers", cfg.Enrichment.Workers),
	)
}
