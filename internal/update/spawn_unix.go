//go:build !windows

package update

import (
	"os/exec"
	"syscall"
)

// setSysProcAttr puts the child in a new session so terminal signals aimed
// at the parent's process group (Ctrl-C) do not reach it.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
