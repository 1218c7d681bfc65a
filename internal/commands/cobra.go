package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"upnotify/internal/output"
	"upnotify/internal/update"
)

// FetchCmd looks up the latest version synchronously
var FetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Look up the latest version now",
	Long:  "Query the registry for the configured dist-tag and print how it compares to the installed version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := ResolveConfig(cmd)
		if err != nil {
			output.PrintError(err)
			return
		}
		if err := RunFetch(cmd.Context(), cfg); err != nil {
			output.PrintError(err)
		}
	},
}

// StatusCmd shows the persisted check state
var StatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show update check state",
	Long:  "Show when the package was last checked, when the next check is due, and any pending notice",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := ResolveConfig(cmd)
		if err != nil {
			output.PrintError(err)
			return
		}
		if err := RunStatus(cfg); err != nil {
			output.PrintError(err)
		}
	},
}

// OptOutCmd disables checks for a package permanently
var OptOutCmd = &cobra.Command{
	Use:   "opt-out",
	Short: "Stop checking for updates",
	Long:  "Persistently disable update checks and notices for the package",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runOptOut(cmd, true)
	},
}

// OptInCmd re-enables checks after opt-out
var OptInCmd = &cobra.Command{
	Use:   "opt-in",
	Short: "Resume checking for updates",
	Long:  "Clear a previous opt-out for the package",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runOptOut(cmd, false)
	},
}

func runOptOut(cmd *cobra.Command, optOut bool) {
	cfg, err := ResolveConfig(cmd)
	if err != nil {
		output.PrintError(err)
		return
	}
	if err := RunOptOut(cfg, optOut); err != nil {
		output.PrintError(err)
	}
}

// ResetCmd clears the persisted state
var ResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget cached results and timestamps",
	Long:  "Delete the pending notice and restart the check interval from now",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := ResolveConfig(cmd)
		if err != nil {
			output.PrintError(err)
			return
		}
		if err := RunReset(cfg); err != nil {
			output.PrintError(err)
		}
	},
}

// CheckCmd is the background worker the notifier re-executes.
var CheckCmd = &cobra.Command{
	Use:    update.WorkerCommand + " <config-json>",
	Short:  "Run one background update check",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := RunCheckWorker(cmd.Context(), args[0], DebugEnabled(cmd)); err != nil {
			output.Exit(1)
		}
	},
}

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show upnotify version",
	Long:  "Show the version of the upnotify CLI",
	Run: func(cmd *cobra.Command, args []string) {
		RunVersion()
	},
}

// CompletionCmd generates shell completion scripts
var CompletionCmd = &cobra.Command{
	Use:    "completion [bash|zsh|fish|powershell]",
	Short:  "Generate shell completion script",
	Hidden: true,
	Long: `Generate shell completion script for the specified shell.

Usage examples:
  # Bash
  source <(upnotify completion bash)

  # Zsh
  source <(upnotify completion zsh)

  # Fish
  upnotify completion fish | source`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return fmt.Errorf("unsupported shell: %s", args[0])
	},
}
