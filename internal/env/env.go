// Package env captures the process environment, arguments and terminal state
// once, so the rest of the notifier never reads ambient globals.
package env

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// DisableFlag is the command-line token that turns update checks off.
const DisableFlag = "--no-update-notifier"

// Context is an immutable snapshot of the runtime the notifier runs in.
type Context struct {
	Vars        map[string]string
	Args        []string
	WorkDir     string
	Executable  string
	Interactive bool // stdout is attached to a terminal
}

// FromProcess builds a Context from the live process. Only the outermost
// layer (cmd/) should call this.
func FromProcess() Context {
	wd, _ := os.Getwd()
	exe, _ := os.Executable()
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return Context{
		Vars:        parseEnviron(os.Environ()),
		Args:        append([]string(nil), os.Args...),
		WorkDir:     wd,
		Executable:  exe,
		Interactive: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func parseEnviron(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}
	return vars
}

// Lookup returns the value of an environment variable and whether it is set.
func (c Context) Lookup(key string) (string, bool) {
	v, ok := c.Vars[key]
	return v, ok
}

// Get returns the value of an environment variable, or "" when unset.
func (c Context) Get(key string) string {
	return c.Vars[key]
}

// HasArg reports whether token appears verbatim among the process arguments.
func (c Context) HasArg(token string) bool {
	for _, a := range c.Args {
		if a == token {
			return true
		}
	}
	return false
}

// ChecksDisabled reports whether update checks are turned off for this run:
// an explicit opt-out variable, test mode, the disable flag, or CI.
func (c Context) ChecksDisabled() bool {
	if _, ok := c.Lookup("NO_UPDATE_NOTIFIER"); ok {
		return true
	}
	return c.Get("NODE_ENV") == "test" ||
		c.HasArg(DisableFlag) ||
		c.IsCI()
}

// ConfigDir returns the per-user configuration directory, honouring
// XDG_CONFIG_HOME the way os.UserConfigDir does.
func (c Context) ConfigDir() string {
	if dir := c.Get("XDG_CONFIG_HOME"); dir != "" && filepath.IsAbs(dir) {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	if home := c.Get("HOME"); home != "" {
		return filepath.Join(home, ".config")
	}
	return filepath.Join(os.TempDir(), ".config")
}
