// Package version wraps semantic version ordering and release-type diffing.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// Release types returned by Diff.
const (
	Major      = "major"
	PreMajor   = "premajor"
	Minor      = "minor"
	PreMinor   = "preminor"
	Patch      = "patch"
	PrePatch   = "prepatch"
	Prerelease = "prerelease"
)

// GreaterThan reports whether a > b. Versions that do not parse are never
// greater than anything.
func GreaterThan(a, b string) bool {
	va, err := semver.NewVersion(a)
	if err != nil {
		return false
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return false
	}
	return va.GreaterThan(vb)
}

// Diff returns the release type separating current from latest, or "" when
// latest is not newer than current or either version does not parse.
func Diff(current, latest string) string {
	from, err := semver.NewVersion(current)
	if err != nil {
		return ""
	}
	to, err := semver.NewVersion(latest)
	if err != nil {
		return ""
	}
	if !to.GreaterThan(from) {
		return ""
	}

	// a prerelease on either side makes the change a pre-release step
	pre := to.Prerelease() != "" || from.Prerelease() != ""
	switch {
	case to.Major() != from.Major():
		return pick(pre, PreMajor, Major)
	case to.Minor() != from.Minor():
		return pick(pre, PreMinor, Minor)
	case to.Patch() != from.Patch():
		return pick(pre, PrePatch, Patch)
	default:
		return Prerelease
	}
}

func pick(pre bool, withPre, without string) string {
	if pre {
		return withPre
	}
	return without
}
