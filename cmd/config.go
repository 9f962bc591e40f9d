package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/breathe-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long: `Show where breathe reads its configuration from and the settings in
effect. breathe never writes the file; edit it by hand.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			p, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			path = p
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.config
		out := cmd.OutOrStdout()

		if jsonOutput {
			jsonData, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		notifStatus := "off"
		if cfg.Notifications.Enabled {
			notifStatus = "on"
		}
		logDest := cfg.Logging.File
		if logDest == "" {
			logDest = "(disabled)"
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Current configuration:")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "    Default pattern:  %s\n", cfg.DefaultPattern)
		fmt.Fprintf(out, "    Show seconds:     %v\n", cfg.ShowSeconds)
		fmt.Fprintf(out, "    Durations:        %s to %s, step %s\n",
			cfg.Selection.MinDuration, cfg.Selection.MaxDuration, cfg.Selection.Step)
		fmt.Fprintf(out, "    Notifications:    %s\n", notifStatus)
		fmt.Fprintf(out, "    Log file:         %s (%s)\n", logDest, cfg.Logging.Level)
		fmt.Fprintf(out, "    Custom patterns:  %d\n", len(cfg.Patterns))
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}
