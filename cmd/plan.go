package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	planDuration time.Duration
	planCycles   int
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan <pattern>",
	Short: "Print the phase timeline of a session without running it",
	Long: `Rehearse a session on a virtual clock and print every phase change,
with how long each phase lasts and when the session would end.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sessionFromFlags(args[0], planDuration, planCycles)
		if err != nil {
			return err
		}

		tl, err := app.patterns.Plan(cmd.Context(), cfg.Pattern.ID, cfg.Rule.Seconds, cfg.Rule.Cycles)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			jsonData, err := json.MarshalIndent(tl, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal plan: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		fmt.Fprintf(out, "🌬 %s (%s), %s\n\n", cfg.Pattern.Title, cfg.Pattern.Rhythm(), cfg.Rule)
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  AT\tPHASE\tFOR\tCYCLE")
		for i, tr := range tl.Transitions {
			// The phase entered at the instant the session ends is never breathed.
			if i == len(tl.Transitions)-1 && tl.Dwell(i) == 0 {
				break
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\n", formatCmdDuration(tr.At), tr.Phase.Label(), tl.Dwell(i), tr.Cycle+1)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%s\n", formatSummary(tl.Summary))
		return nil
	},
}

func init() {
	planCmd.Flags().DurationVarP(&planDuration, "duration", "d", 0, "Session length for duration-based patterns (e.g. 3m)")
	planCmd.Flags().IntVarP(&planCycles, "cycles", "c", 0, "Number of cycles for cycle-based patterns")
	planCmd.MarkFlagsMutuallyExclusive("duration", "cycles")
}
