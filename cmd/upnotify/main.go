package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"upnotify/internal/commands"
	"upnotify/internal/env"
	"upnotify/internal/output"
	"upnotify/internal/update"
)

var (
	jsonFlag    bool
	yamlFlag    bool
	nowFlag     bool
	messageFlag string
)

var rootCmd = &cobra.Command{
	Use:   "upnotify",
	Short: "Tell CLI users when a newer release is published",
	Long: `Check the npm registry for newer releases of a package in the background
and show a notice on a later run, without slowing the current one down.

Running upnotify with --name and --pkg-version does what a host tool would
do on every invocation: consume any cached result, start a background check
when the interval has elapsed, and print the notice when the process exits.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := commands.ResolveConfig(cmd)
		if err != nil {
			output.PrintError(err)
			return
		}
		opts := update.NotifyOptions{Immediate: nowFlag, Message: messageFlag}
		if err := commands.RunNotify(cfg, opts); err != nil {
			output.PrintError(err)
		}
	},
}

func init() {
	commands.RegisterFlags(rootCmd)
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&yamlFlag, "yaml", false, "Output in YAML format")
	rootCmd.Flags().BoolVar(&nowFlag, "now", false, "Print the notice immediately instead of at exit")
	rootCmd.Flags().StringVar(&messageFlag, "message", "", "Notice template ({packageName}, {currentVersion}, {latestVersion}, {updateCommand})")

	rootCmd.AddCommand(commands.FetchCmd)
	rootCmd.AddCommand(commands.StatusCmd)
	rootCmd.AddCommand(commands.OptOutCmd)
	rootCmd.AddCommand(commands.OptInCmd)
	rootCmd.AddCommand(commands.ResetCmd)
	rootCmd.AddCommand(commands.VersionCmd)
	rootCmd.AddCommand(commands.CompletionCmd)
	rootCmd.AddCommand(commands.CheckCmd)
}

func main() {
	commands.Env = env.FromProcess()
	hooks := commands.Hooks
	output.Exit = func(code int) {
		hooks.Exit()
		os.Exit(code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stop := hooks.Listen(ctx)

	// Propagate output and logging flags before execution
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		output.JSONMode = jsonFlag
		output.YAMLMode = yamlFlag
		commands.Logger = commands.NewLogger(os.Stderr, commands.DebugEnabled(cmd))
	}

	err := rootCmd.ExecuteContext(ctx)
	stop()
	cancel()
	hooks.Exit()
	if err != nil {
		os.Exit(1)
	}
}
