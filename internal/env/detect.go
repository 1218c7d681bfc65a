package env

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ciVars are set by at least one well-known CI provider. Presence of any of
// them is enough.
var ciVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"BUILD_NUMBER",
	"RUN_ID",
	"BUILD_ID",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"APPVEYOR",
	"BUILDKITE",
	"DRONE",
	"JENKINS_URL",
	"TEAMCITY_VERSION",
	"TF_BUILD",
	"CODEBUILD_BUILD_ID",
	"BITBUCKET_COMMIT",
	"SEMAPHORE",
	"NETLIFY",
	"VERCEL",
}

// IsCI reports whether the process looks like it runs on a CI server.
func (c Context) IsCI() bool {
	if v, ok := c.Lookup("CI"); ok && (v == "false" || v == "0") {
		return false
	}
	for _, k := range ciVars {
		if _, ok := c.Lookup(k); ok {
			return true
		}
	}
	return false
}

// InPackageManagerScript reports whether the tool runs as a lifecycle
// script of npm or yarn.
func (c Context) InPackageManagerScript() bool {
	ua := c.Get("npm_config_user_agent")
	if strings.HasPrefix(ua, "npm") || strings.HasPrefix(ua, "yarn") {
		return true
	}
	_, ok := c.Lookup("npm_lifecycle_event")
	return ok
}

// npmGlobalPrefix mirrors npm's resolution of the global install prefix.
func (c Context) npmGlobalPrefix() string {
	if p := c.Get("npm_config_prefix"); p != "" {
		return p
	}
	if p := c.Get("PREFIX"); p != "" {
		return p
	}
	if runtime.GOOS == "windows" {
		if appData := c.Get("APPDATA"); appData != "" {
			return filepath.Join(appData, "npm")
		}
	}
	return "/usr/local"
}

func (c Context) npmGlobalPackagesDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(c.npmGlobalPrefix(), "node_modules")
	}
	return filepath.Join(c.npmGlobalPrefix(), "lib", "node_modules")
}

// IsYarnGlobal reports whether the running executable lives inside yarn's
// global package directory.
func (c Context) IsYarnGlobal() bool {
	p := normalizePath(c.Executable)
	if p == "" {
		return false
	}
	for _, marker := range []string{"/yarn/global/", "/.config/yarn/", "/yarn/data/global/", "/.yarn/"} {
		if strings.Contains(p, marker) {
			return true
		}
	}
	return false
}

// IsInstalledGlobally reports whether the running executable was installed
// with a global npm or yarn install.
func (c Context) IsInstalledGlobally() bool {
	if c.IsYarnGlobal() {
		return true
	}
	p := normalizePath(c.Executable)
	if p == "" {
		return false
	}
	dir := normalizePath(c.npmGlobalPackagesDir())
	return strings.HasPrefix(p, strings.TrimSuffix(dir, "/")+"/")
}

// HasYarn reports whether the working directory is a yarn project.
func (c Context) HasYarn() bool {
	if c.WorkDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(c.WorkDir, "yarn.lock"))
	return err == nil
}

func normalizePath(p string) string {
	if p == "" {
		return ""
	}
	return strings.ToLower(filepath.ToSlash(p))
}
