package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/breathe-cli/internal/adapters/clock"
	"github.com/xvierd/breathe-cli/internal/adapters/tui"
	"github.com/xvierd/breathe-cli/internal/domain"
	"github.com/xvierd/breathe-cli/internal/services"
)

var (
	startDuration time.Duration
	startCycles   int
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [pattern]",
	Short: "Start a breathing session",
	Long: `Start a breathing session right away, skipping pattern selection.
Without a pattern the configured default is used. Duration-based patterns
take --duration, cycle-based patterns take --cycles.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := app.config.DefaultPattern
		if len(args) > 0 {
			id = args[0]
		}

		cfg, err := sessionFromFlags(id, startDuration, startCycles)
		if err != nil {
			return err
		}
		if err := requireTerminal(); err != nil {
			return err
		}

		ctx := setupSignalHandler()
		model := tui.NewApp(app.patterns, clock.NewSystem(), app.config,
			tui.WithSession(cfg),
			tui.WithExitOnEnd(),
			tui.WithNotifier(app.notifier),
			tui.WithLogger(app.log),
		)

		summary, err := tui.Run(ctx, model)
		if err != nil {
			return fmt.Errorf("timer error: %w", err)
		}
		if summary == nil {
			return nil
		}
		return printSummary(cmd.OutOrStdout(), *summary)
	},
}

func init() {
	startCmd.Flags().DurationVarP(&startDuration, "duration", "d", 0, "Session length for duration-based patterns (e.g. 3m)")
	startCmd.Flags().IntVarP(&startCycles, "cycles", "c", 0, "Number of cycles for cycle-based patterns")
	startCmd.MarkFlagsMutuallyExclusive("duration", "cycles")
}

// sessionFromFlags resolves a pattern id and optional limits into a session
// config, suggesting close ids for a typo.
func sessionFromFlags(id string, duration time.Duration, cycles int) (domain.SessionConfig, error) {
	if duration < 0 || (duration > 0 && duration%time.Second != 0) {
		return domain.SessionConfig{}, fmt.Errorf("duration must be a positive whole number of seconds, got %s", duration)
	}
	if cycles < 0 {
		return domain.SessionConfig{}, fmt.Errorf("cycles must be positive, got %d", cycles)
	}

	p, err := app.patterns.Lookup(id)
	if err != nil {
		if suggestions := app.patterns.Suggest(id); len(suggestions) > 0 {
			return domain.SessionConfig{}, fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
		}
		return domain.SessionConfig{}, err
	}

	if p.UsesCycles() && duration > 0 {
		return domain.SessionConfig{}, fmt.Errorf("%s stops after a number of cycles; use --cycles", p.ID)
	}
	if !p.UsesCycles() && cycles > 0 {
		return domain.SessionConfig{}, fmt.Errorf("%s stops after a duration; use --duration", p.ID)
	}

	return app.patterns.NewSession(services.SessionRequest{
		PatternID:       p.ID,
		DurationSeconds: int(duration / time.Second),
		CycleLimit:      cycles,
	})
}

// printSummary reports how a session ended.
func printSummary(w io.Writer, s domain.Summary) error {
	if jsonOutput {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err := fmt.Fprintln(w, formatSummary(s))
	return err
}

func formatSummary(s domain.Summary) string {
	verb := "completed"
	if !s.Completed() {
		verb = "stopped"
	}
	cycles := fmt.Sprintf("%d cycles", s.Cycles)
	if s.Cycles == 1 {
		cycles = "1 cycle"
	}
	return fmt.Sprintf("🌬 %s %s: %s in %s", s.PatternID, verb, cycles, formatCmdDuration(s.Elapsed))
}

func formatCmdDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
