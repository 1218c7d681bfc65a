// Package lifecycle sequences callbacks that must run when the process ends,
// either normally or because the user interrupted it.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptExitCode is the status used after an interrupt (128 + SIGINT).
const InterruptExitCode = 130

// Hooks collects exit and interrupt callbacks. Every callback runs at most
// once, no matter how many times Exit or the interrupt path fires.
type Hooks struct {
	mu          sync.Mutex
	onExit      []*hook
	onInterrupt []*hook

	// ExitFunc terminates the process after an interrupt. Tests replace it.
	ExitFunc func(code int)
}

type hook struct {
	once sync.Once
	fn   func()
}

func (h *hook) run() { h.once.Do(h.fn) }

// New returns empty Hooks that call os.Exit after an interrupt.
func New() *Hooks {
	return &Hooks{ExitFunc: os.Exit}
}

var (
	defaultHooks *Hooks
	defaultOnce  sync.Once
)

// Default returns the process-wide Hooks.
func Default() *Hooks {
	defaultOnce.Do(func() { defaultHooks = New() })
	return defaultHooks
}

// OnExit registers fn to run when the process ends normally.
func (h *Hooks) OnExit(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onExit = append(h.onExit, &hook{fn: fn})
}

// OnInterrupt registers fn to run when the process is interrupted, before
// the exit callbacks.
func (h *Hooks) OnInterrupt(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onInterrupt = append(h.onInterrupt, &hook{fn: fn})
}

// Exit runs the exit callbacks in registration order. Hosts defer this in
// main.
func (h *Hooks) Exit() {
	for _, cb := range h.snapshot(&h.onExit) {
		cb.run()
	}
}

// Interrupt runs the interrupt callbacks, then the exit callbacks, then
// terminates the process with InterruptExitCode.
func (h *Hooks) Interrupt() {
	for _, cb := range h.snapshot(&h.onInterrupt) {
		cb.run()
	}
	h.Exit()
	if h.ExitFunc != nil {
		h.ExitFunc(InterruptExitCode)
	}
}

func (h *Hooks) snapshot(list *[]*hook) []*hook {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*hook(nil), (*list)...)
}

// Listen routes SIGINT and SIGTERM to Interrupt until ctx is done or the
// returned stop function is called.
func (h *Hooks) Listen(ctx context.Context) (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case <-sigs:
			h.Interrupt()
		case <-ctx.Done():
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
		})
	}
}
