package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/xvierd/breathe-cli/internal/domain"
	"gopkg.in/yaml.v3"
)

var patternsYAML bool

// patternsCmd represents the patterns command
var patternsCmd = &cobra.Command{
	Use:     "patterns",
	Aliases: []string{"ls"},
	Short:   "List breathing patterns",
	Long:    `List the built-in patterns and any custom patterns from the config file.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		patterns := app.patterns.Patterns()
		out := cmd.OutOrStdout()
		if jsonOutput && patternsYAML {
			return fmt.Errorf("--json and --yaml cannot be used together")
		}

		if jsonOutput {
			data := map[string]interface{}{
				"patterns": patterns,
				"count":    len(patterns),
			}
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal patterns: %w", err)
			}
			fmt.Fprintln(out, string(jsonData))
			return nil
		}

		if patternsYAML {
			yamlData, err := yaml.Marshal(map[string][]domain.Pattern{"patterns": patterns})
			if err != nil {
				return fmt.Errorf("failed to marshal patterns: %w", err)
			}
			fmt.Fprint(out, string(yamlData))
			return nil
		}

		fmt.Fprintf(out, "🌬 Patterns (%d):\n\n", len(patterns))
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, p := range patterns {
			marker := " "
			if p.ID == app.config.DefaultPattern {
				marker = "*"
			}
			fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\n", marker, p.ID, p.Title, p.Rhythm(), defaultRule(p))
		}
		return tw.Flush()
	},
}

func init() {
	patternsCmd.Flags().BoolVar(&patternsYAML, "yaml", false, "Output patterns as YAML")
}

// defaultRule describes how a pattern stops when no limit is given.
func defaultRule(p domain.Pattern) string {
	if p.UsesCycles() {
		return domain.CycleRule(p.DefaultCycles).String()
	}
	return domain.DurationRule(p.DefaultDuration).String()
}
