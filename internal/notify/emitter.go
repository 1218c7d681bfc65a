package notify

import (
	"fmt"
	"io"

	"upnotify/internal/lifecycle"
)

// Emitter writes rendered notices, either right away or when the process
// ends.
type Emitter struct {
	Out   io.Writer
	Hooks *lifecycle.Hooks
}

// NewEmitter returns an Emitter writing to out and deferring through hooks.
func NewEmitter(out io.Writer, hooks *lifecycle.Hooks) *Emitter {
	return &Emitter{Out: out, Hooks: hooks}
}

// Emit prints message now, or registers it to print exactly once at exit.
// A deferred message also survives Ctrl-C: a blank line is written to end
// the interrupted output, then the exit callbacks print the notice.
func (e *Emitter) Emit(message string, deferred bool) {
	if !deferred || e.Hooks == nil {
		fmt.Fprintln(e.Out, message)
		return
	}
	e.Hooks.OnExit(func() {
		fmt.Fprintln(e.Out, message)
	})
	e.Hooks.OnInterrupt(func() {
		fmt.Fprintln(e.Out)
	})
}
