package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"upnotify/internal/config"
	"upnotify/internal/env"
	"upnotify/internal/lifecycle"
)

// DebugEnv turns on debug logging for the CLI and the background worker.
const DebugEnv = "UPNOTIFY_DEBUG"

var (
	// Env is the process context; main sets it before Execute.
	Env env.Context
	// Hooks receives deferred notices and runs them at exit.
	Hooks = lifecycle.Default()
	// Logger is replaced by main when debugging is on.
	Logger = slog.New(slog.DiscardHandler)
	// Stderr receives update notices.
	Stderr io.Writer = os.Stderr
)

// RegisterFlags adds the flags every command understands.
func RegisterFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (default: upnotify.yaml in the working or user config directory)")
	pf.String("name", "", "Package name to check")
	pf.String("pkg-version", "", "Currently installed version")
	pf.Duration("interval", config.DefaultInterval, "Minimum time between background checks (0 checks every run, negative never)")
	pf.String("dist-tag", config.DefaultDistTag, "Registry dist-tag to compare against")
	pf.String("registry", "", "Registry base URL")
	pf.String("config-dir", "", "Directory holding the configstore state files")
	pf.Bool("allow-in-script", false, "Show notices inside npm/yarn scripts")
	pf.Bool("debug", false, "Log debug output to stderr (also "+DebugEnv+")")
	pf.Bool(env.DisableFlag[2:], false, "Disable update checks for this run")
}

// ResolveConfig loads the config file and environment, then applies any
// flags the user set explicitly.
func ResolveConfig(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()
	path, _ := f.GetString("config")
	cfg, err := config.Load(path, Env)
	if err != nil {
		return config.Config{}, err
	}

	if f.Changed("name") {
		cfg.PackageName, _ = f.GetString("name")
	}
	if f.Changed("pkg-version") {
		cfg.PackageVersion, _ = f.GetString("pkg-version")
	}
	if f.Changed("interval") {
		d, _ := f.GetDuration("interval")
		cfg.UpdateCheckInterval = d.Milliseconds()
		if d < 0 && cfg.UpdateCheckInterval == 0 {
			// sub-millisecond negatives still mean never
			cfg.UpdateCheckInterval = -1
		}
	}
	if f.Changed("dist-tag") {
		cfg.DistTag, _ = f.GetString("dist-tag")
	}
	if f.Changed("registry") {
		cfg.RegistryURL, _ = f.GetString("registry")
	}
	if f.Changed("config-dir") {
		cfg.ConfigDir, _ = f.GetString("config-dir")
	}
	if f.Changed("allow-in-script") {
		cfg.ShouldNotifyInNpmScript, _ = f.GetBool("allow-in-script")
	}
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = Env.ConfigDir()
	}
	return cfg, nil
}

// DebugEnabled reports whether --debug or UPNOTIFY_DEBUG asked for logs.
func DebugEnabled(cmd *cobra.Command) bool {
	if on, _ := cmd.Flags().GetBool("debug"); on {
		return true
	}
	v := Env.Get(DebugEnv)
	return v != "" && v != "0" && v != "false"
}

// NewLogger returns a text logger at debug level, or a discarding one.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
