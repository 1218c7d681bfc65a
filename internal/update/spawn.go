package update

import (
	"log/slog"
	"os"
	"os/exec"

	"upnotify/internal/config"
)

// ProcessSpawner runs the background check as a detached copy of the
// current executable: `<exe> __check <json-config>`.
type ProcessSpawner struct {
	Executable string
	Logger     *slog.Logger
}

// SpawnDetachedCheck starts the worker and returns at once. The child gets
// no stdio and its own session, so it outlives the parent and never writes
// to the user's terminal.
func (p *ProcessSpawner) SpawnDetachedCheck(cfg config.Config) {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	payload, err := cfg.Encode()
	if err != nil {
		logger.Debug("encode worker payload", "err", err)
		return
	}

	exe := p.Executable
	if exe == "" {
		if exe, err = os.Executable(); err != nil {
			logger.Debug("cannot find executable", "err", err)
			return
		}
	}

	cmd := exec.Command(exe, WorkerCommand, payload)
	cmd.Dir = os.TempDir()
	setSysProcAttr(cmd)
	if err := cmd.Start(); err != nil {
		logger.Debug("spawn background check", "err", err)
		return
	}
	logger.Debug("spawned background check", "pid", cmd.Process.Pid, "package", cfg.PackageName)

	// reap the child if we are still around when it exits
	go cmd.Wait()
}
