package update

import (
	"io"
	"log/slog"
	"os"
	"time"

	"upnotify/internal/config"
	"upnotify/internal/env"
	"upnotify/internal/lifecycle"
	"upnotify/internal/notify"
	"upnotify/internal/registry"
	"upnotify/internal/store"
)

// Notifier decides when to look for a new version and whether to tell the
// user about one.
type Notifier struct {
	cfg      config.Config
	rt       env.Context
	disabled bool

	store    *store.Store
	storeErr error
	update   *Result

	spawner Spawner
	lookup  Lookup
	now     func() time.Time
	hooks   *lifecycle.Hooks
	stderr  io.Writer
	logger  *slog.Logger
}

// New validates cfg and prepares a Notifier. Checks are disabled when rt
// carries NO_UPDATE_NOTIFIER, NODE_ENV=test, the --no-update-notifier flag,
// or looks like CI. An unusable state store is not fatal: checks are
// disabled for this run and a hint is printed at exit.
func New(cfg config.Config, rt env.Context, opts ...Option) (*Notifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	cfg.DistTag = cfg.Tag()
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = rt.ConfigDir()
	}

	n := &Notifier{
		cfg:    cfg,
		rt:     rt,
		now:    time.Now,
		hooks:  lifecycle.Default(),
		stderr: os.Stderr,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.lookup == nil {
		n.lookup = registry.New(cfg.RegistryURL)
	}
	if n.spawner == nil {
		n.spawner = &ProcessSpawner{Executable: rt.Executable, Logger: n.logger}
	}

	n.disabled = rt.ChecksDisabled()
	if n.disabled || n.store != nil {
		return n, nil
	}

	s, err := store.Open(cfg.ConfigDir, cfg.PackageName, n.now())
	if err != nil {
		n.storeErr = err
		n.logger.Debug("state store unavailable", "package", cfg.PackageName, "err", err)
		n.deferStoreNotice()
		return n, nil
	}
	n.store = s
	return n, nil
}

// Run is New followed by Check.
func Run(cfg config.Config, rt env.Context, opts ...Option) (*Notifier, error) {
	n, err := New(cfg, rt, opts...)
	if err != nil {
		return nil, err
	}
	n.Check()
	return n, nil
}

func (n *Notifier) deferStoreNotice() {
	msg := notify.NewRenderer(n.stderr).PermissionMessage(n.cfg.PackageName, n.cfg.ConfigDir)
	n.hooks.OnExit(func() {
		io.WriteString(n.stderr, msg+"\n")
	})
}

// Config returns the effective configuration.
func (n *Notifier) Config() config.Config { return n.cfg }

// Disabled reports whether the runtime turned checks off.
func (n *Notifier) Disabled() bool { return n.disabled }

// StoreErr returns why the state store could not be opened, if it could not.
func (n *Notifier) StoreErr() error { return n.storeErr }

// Update returns the cached result consumed by Check, if any.
func (n *Notifier) Update() *Result { return n.update }
