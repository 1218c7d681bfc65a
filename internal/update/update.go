// Package update coordinates periodic, non-blocking update checks for a
// command-line tool and surfaces a notice on a later run.
package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"upnotify/internal/config"
	"upnotify/internal/lifecycle"
	"upnotify/internal/store"
)

// Result is the outcome of a registry lookup.
type Result = store.UpdateResult

// Lookup resolves the version a dist-tag points at.
type Lookup interface {
	LatestVersion(ctx context.Context, name, distTag string) (string, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, name, distTag string) (string, error)

// LatestVersion calls f.
func (f LookupFunc) LatestVersion(ctx context.Context, name, distTag string) (string, error) {
	return f(ctx, name, distTag)
}

// Spawner starts a background check. It reports nothing back: success and
// failure are only visible through the store on a later run.
type Spawner interface {
	SpawnDetachedCheck(cfg config.Config)
}

var (
	// ErrConfiguration is matched by every ConfigurationError.
	ErrConfiguration = errors.New("invalid notifier configuration")
	// ErrLookup is matched by every LookupError.
	ErrLookup = errors.New("update lookup failed")
)

// ConfigurationError is returned by New when the package identity is
// incomplete.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("update notifier: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// LookupError wraps a registry failure.
type LookupError struct {
	Package string
	DistTag string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("look up %s@%s: %v", e.Package, e.DistTag, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool { return target == ErrLookup }

// Option customises a Notifier.
type Option func(*Notifier)

// WithStore uses s instead of opening the store from the config directory.
func WithStore(s *store.Store) Option {
	return func(n *Notifier) { n.store = s }
}

// WithSpawner replaces the detached-process spawner.
func WithSpawner(s Spawner) Option {
	return func(n *Notifier) { n.spawner = s }
}

// WithLookup replaces the registry client.
func WithLookup(l Lookup) Option {
	return func(n *Notifier) { n.lookup = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// WithLifecycle sets the hooks used for deferred output.
func WithLifecycle(h *lifecycle.Hooks) Option {
	return func(n *Notifier) { n.hooks = h }
}

// WithLogger sets the debug logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

// WithStderr sets where notices are written.
func WithStderr(w io.Writer) Option {
	return func(n *Notifier) { n.stderr = w }
}
