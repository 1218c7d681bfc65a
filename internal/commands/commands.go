package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"upnotify/internal/config"
	"upnotify/internal/output"
	"upnotify/internal/store"
	"upnotify/internal/ui"
	"upnotify/internal/update"
)

// CheckLogFile is written to the configstore directory when the worker
// runs with debugging on.
const CheckLogFile = "upnotify-check.log"

// Status describes the persisted check state of one package.
type Status struct {
	Package         string              `json:"package" yaml:"package"`
	Path            string              `json:"path" yaml:"path"`
	Exists          bool                `json:"exists" yaml:"exists"`
	OptOut          bool                `json:"optOut" yaml:"optOut"`
	ChecksDisabled  bool                `json:"checksDisabled" yaml:"checksDisabled"`
	LastUpdateCheck *time.Time          `json:"lastUpdateCheck,omitempty" yaml:"lastUpdateCheck,omitempty"`
	NextCheck       *time.Time          `json:"nextCheck,omitempty" yaml:"nextCheck,omitempty"`
	Pending         *store.UpdateResult `json:"pending,omitempty" yaml:"pending,omitempty"`
}

// RunNotify is what a host tool does on every invocation: consume any
// cached result, maybe start a background check, and queue the notice.
func RunNotify(cfg config.Config, opts update.NotifyOptions) error {
	n, err := update.Run(cfg, Env,
		update.WithLifecycle(Hooks),
		update.WithLogger(Logger),
		update.WithStderr(Stderr))
	if err != nil {
		return err
	}
	Logger.Debug("notifier ready",
		"package", cfg.PackageName,
		"disabled", n.Disabled(),
		"pending", n.Update() != nil,
		"storeErr", n.StoreErr())
	n.Notify(opts)
	return nil
}

// RunFetch queries the registry and prints the result.
func RunFetch(ctx context.Context, cfg config.Config) error {
	n, err := update.New(cfg, Env, update.WithLifecycle(Hooks), update.WithLogger(Logger))
	if err != nil {
		return err
	}
	info, err := n.FetchInfo(ctx)
	if err != nil {
		return err
	}

	output.Print(info, func() {
		ui.ShowHeader(info.Name)
		ui.ShowField("current", info.Current)
		ui.ShowField("latest", info.Latest)
		ui.ShowField("type", info.Type)
	})
	return nil
}

// RunStatus prints the persisted state for cfg.PackageName. It never
// creates the state file, so the next real run still counts as the first.
func RunStatus(cfg config.Config) error {
	if cfg.PackageName == "" {
		return &config.ValidationError{Field: "packageName"}
	}
	dir := configDir(cfg)
	st, exists, err := store.Peek(dir, cfg.PackageName)
	if err != nil {
		return err
	}

	status := Status{
		Package:        cfg.PackageName,
		Path:           store.FilePath(dir, cfg.PackageName),
		Exists:         exists,
		OptOut:         st.OptOut,
		ChecksDisabled: Env.ChecksDisabled(),
		Pending:        st.Update,
	}
	if exists {
		last := time.UnixMilli(st.LastUpdateCheck)
		status.LastUpdateCheck = &last
		if !cfg.SchedulingDisabled() && !st.OptOut {
			next := last.Add(cfg.Interval())
			status.NextCheck = &next
		}
	}

	output.Print(status, func() {
		ui.ShowHeader(status.Package)
		ui.ShowField("state file", status.Path)
		if !status.Exists {
			ui.ShowInfo("No state yet: the first run of %s creates it", status.Package)
		} else {
			ui.ShowField("opt out", status.OptOut)
			ui.ShowField("last check", humanize.Time(*status.LastUpdateCheck))
			if status.NextCheck != nil {
				ui.ShowField("next check", humanize.Time(*status.NextCheck))
			} else {
				ui.ShowField("next check", "never")
			}
			if p := status.Pending; p != nil {
				ui.ShowField("pending", fmt.Sprintf("%s → %s (%s)", p.Current, p.Latest, p.Type))
			} else {
				ui.ShowField("pending", "none")
			}
		}
		if status.ChecksDisabled {
			ui.ShowWarning("Update checks are disabled in this environment")
		}
	})
	return nil
}

// RunOptOut sets or clears the permanent opt-out for cfg.PackageName.
func RunOptOut(cfg config.Config, optOut bool) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := s.SetOptOut(optOut); err != nil {
		return err
	}

	output.Print(map[string]any{"package": cfg.PackageName, "optOut": optOut}, func() {
		if optOut {
			ui.ShowSuccess("Update checks disabled for %s", cfg.PackageName)
		} else {
			ui.ShowSuccess("Update checks enabled for %s", cfg.PackageName)
		}
	})
	return nil
}

// RunReset discards the persisted state and starts a fresh interval.
func RunReset(cfg config.Config) error {
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := s.Reset(time.Now()); err != nil {
		return err
	}

	output.Print(map[string]any{"package": cfg.PackageName, "path": s.Path()}, func() {
		ui.ShowSuccess("Reset update state for %s", cfg.PackageName)
	})
	return nil
}

// RunCheckWorker is the body of the detached background process. It never
// prints; with debugging on it appends to the check log instead.
func RunCheckWorker(ctx context.Context, payload string, debug bool) error {
	logger := Logger
	if debug {
		if f, err := openCheckLog(payload); err == nil {
			defer f.Close()
			logger = NewLogger(f, true)
		}
	}
	return update.RunWorker(ctx, payload, Env, logger)
}

func openCheckLog(payload string) (*os.File, error) {
	cfg, err := config.Decode(payload)
	if err != nil {
		return nil, err
	}
	logDir := filepath.Join(configDir(cfg), "configstore")
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(logDir, CheckLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

func openStore(cfg config.Config) (*store.Store, error) {
	if cfg.PackageName == "" {
		return nil, &config.ValidationError{Field: "packageName"}
	}
	return store.Open(configDir(cfg), cfg.PackageName, time.Now())
}

func configDir(cfg config.Config) string {
	if cfg.ConfigDir != "" {
		return cfg.ConfigDir
	}
	return Env.ConfigDir()
}
