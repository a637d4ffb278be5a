package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/reelhouse/cli/pkg/config"
	apperrors "github.com/reelhouse/cli/pkg/errors"
	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/output"
	"github.com/reelhouse/cli/pkg/service"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
	envName    string
	showStats  bool

	app     *service.App
	current *cobra.Command
	started time.Time
)

var rootCmd = &cobra.Command{
	Use:   "reelhouse-cli",
	Short: "Reelhouse CLI - posts, reels and the people behind them",
	Long: `Reelhouse CLI is a command-line client for Reelhouse. Browse and
like posts, comment and reply, follow people and watch the reel feed
directly from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		started = time.Now()

		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}
		if envName != "" && !config.UseEnvironment(envName) {
			return apperrors.Validation("env", fmt.Sprintf("%q is not configured", envName))
		}

		logger.Init(verbose)

		if !output.Valid(outputFmt) {
			return apperrors.Validation("output", "must be text, json or table")
		}
		config.Set("output.format", outputFmt)

		current = cmd
		app = service.Default()
		return nil
	},
}

// finish flushes the visit beacon, prints --stats and closes the app. It
// runs after every command, failed ones included; cobra skips post-run hooks
// when RunE errors.
func finish() {
	if app == nil {
		return
	}
	defer func() {
		app.Close()
		app = nil
	}()

	path := rootCmd.CommandPath()
	if current != nil {
		path = current.CommandPath()
	}
	uid, _ := app.Session.CurrentUserID()
	app.Beacon.Visit(uid, path, time.Since(started))
	if !app.Beacon.Flush(2 * time.Second) {
		logger.Debug("Visit beacon still pending at exit")
	}

	if showStats {
		printStats()
	}
}

func printStats() {
	snapshot, err := app.Metrics.Snapshot()
	if err != nil {
		logger.Warn("Could not read metrics", "error", err)
		return
	}
	record := make(map[string]interface{}, len(snapshot))
	for k, v := range snapshot {
		record[k] = v
	}
	if err := output.Record("Stats", record); err != nil {
		logger.Warn("Could not print metrics", "error", err)
	}
}

// run executes the command line args (os.Args when nil) and finishes up
// whether or not the command succeeded
func run(args []string) error {
	if args != nil {
		rootCmd.SetArgs(args)
	}
	err := rootCmd.Execute()
	finish()
	return err
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := run(nil); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/reelhouse/cli/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json, table")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "Named API environment from the config file (env.<name>.api_base_url)")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "Print request and feed counters after the command")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(unfollowCmd)
	rootCmd.AddCommand(reelCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}
