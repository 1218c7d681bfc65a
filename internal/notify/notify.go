// Package notify decides whether an update notice may be shown, renders it,
// and delivers it at a safe moment.
package notify

import (
	"upnotify/internal/store"
	"upnotify/internal/version"
)

// Gate holds everything the show/suppress decision depends on.
type Gate struct {
	Interactive            bool
	InPackageManagerScript bool
	AllowInScript          bool
	Update                 *store.UpdateResult
}

// ShouldNotify reports whether a notice may be shown. A false result is the
// normal quiet path, not an error.
func ShouldNotify(g Gate) bool {
	if !g.Interactive {
		return false
	}
	if g.InPackageManagerScript && !g.AllowInScript {
		return false
	}
	if g.Update == nil {
		return false
	}
	return version.GreaterThan(g.Update.Latest, g.Update.Current)
}

// Install describes how the running tool was installed.
type Install struct {
	YarnGlobal bool
	Global     bool
	HasYarn    bool
}

// InstallCommand returns the command that upgrades packageName for the given
// install kind.
func InstallCommand(packageName string, in Install) string {
	switch {
	case in.YarnGlobal:
		return "yarn global add " + packageName
	case in.Global:
		return "npm i -g " + packageName
	case in.HasYarn:
		return "yarn add " + packageName
	default:
		return "npm i " + packageName
	}
}
