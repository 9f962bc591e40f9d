// Package cmd provides the CLI commands for breathe.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/breathe-cli/internal/adapters/clock"
	"github.com/xvierd/breathe-cli/internal/adapters/tui"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	configPath string
	jsonOutput bool
	debugMode  bool
	logFile    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "breathe",
	Short: "breathe - guided breathing exercises in your terminal",
	Long: `breathe guides you through paced breathing exercises with an
animated circle that grows as you inhale and shrinks as you exhale.

Run "breathe" with no arguments to pick a pattern interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runInteractive,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: ~/.breathe/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write debug logs (default file: ~/.breathe/debug.log)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("breathe\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runInteractive loops between pattern selection and exercise until the
// user quits.
func runInteractive(cmd *cobra.Command, args []string) error {
	if err := requireTerminal(); err != nil {
		return err
	}

	ctx := setupSignalHandler()
	model := tui.NewApp(app.patterns, clock.NewSystem(), app.config,
		tui.WithNotifier(app.notifier),
		tui.WithLogger(app.log),
	)

	if _, err := tui.Run(ctx, model); err != nil {
		return fmt.Errorf("timer error: %w", err)
	}
	return nil
}
