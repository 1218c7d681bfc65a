package update

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"upnotify/internal/config"
	"upnotify/internal/env"
	"upnotify/internal/registry"
	"upnotify/internal/store"
	"upnotify/internal/version"
)

// WorkerCommand is the argument that routes a re-executed binary to
// RunWorker.
const WorkerCommand = "__check"

// CheckTimeout bounds a background lookup so an offline worker exits.
const CheckTimeout = 30 * time.Second

// RunCheck performs one lookup and records the outcome. The timestamp and
// any newer version are written together; on failure nothing is written.
func RunCheck(ctx context.Context, cfg config.Config, s *store.Store, lookup Lookup, now func() time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	info, err := fetchInfo(ctx, cfg, lookup)
	if err != nil {
		return err
	}

	var pending *Result
	if version.GreaterThan(info.Latest, info.Current) {
		pending = &info
	}
	return s.RecordCheck(now(), pending)
}

// RunWorker is the entry point of the detached process. payload is the
// JSON config produced by config.Config.Encode.
func RunWorker(ctx context.Context, payload string, rt env.Context, logger *slog.Logger) error {
	cfg, err := config.Decode(payload)
	if err != nil {
		return err
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = rt.ConfigDir()
	}

	s, err := store.Open(cfg.ConfigDir, cfg.PackageName, time.Now())
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}

	err = RunCheck(ctx, cfg, s, registry.New(cfg.RegistryURL), time.Now)
	if err != nil {
		logger.Debug("background check failed", "package", cfg.PackageName, "err", err)
		return err
	}
	logger.Debug("background check done", "package", cfg.PackageName)
	return nil
}
