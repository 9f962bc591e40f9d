package tui

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/xvierd/breathe-cli/internal/config"
	"github.com/xvierd/breathe-cli/internal/domain"
)

const (
	keyPattern  = "pattern"
	keyDuration = "duration"
)

// newPatternForm builds the pattern picker, preselecting selected.
func newPatternForm(patterns []domain.Pattern, selected string) *huh.Form {
	id := selected
	options := make([]huh.Option[string], 0, len(patterns))
	for _, p := range patterns {
		options = append(options, huh.NewOption(p.Label, p.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose a pattern").
				Description("Inhale, hold, exhale and hold-empty seconds").
				Key(keyPattern).
				Options(options...).
				Value(&id),
		),
	).WithShowHelp(true)
}

// durationChoices lists the selectable durations in seconds. The pattern
// default is always offered, even outside the configured range.
func durationChoices(sel config.SelectionConfig, preset int) []int {
	var out []int
	found := false
	for _, d := range sel.Durations() {
		s := int(d / time.Second)
		if s == preset {
			found = true
		}
		out = append(out, s)
	}
	if !found && preset > 0 {
		out = append(out, preset)
		sort.Ints(out)
	}
	return out
}

func durationLabel(seconds int) string {
	d := time.Duration(seconds) * time.Second
	if seconds%60 == 0 {
		if seconds == 60 {
			return "1 min"
		}
		return fmt.Sprintf("%d min", seconds/60)
	}
	return d.String()
}

// newDurationForm builds the duration picker for a duration-limited
// pattern, preselecting preset seconds.
func newDurationForm(p domain.Pattern, sel config.SelectionConfig, preset int) *huh.Form {
	secs := preset
	choices := durationChoices(sel, preset)
	options := make([]huh.Option[int], 0, len(choices))
	for _, s := range choices {
		options = append(options, huh.NewOption(durationLabel(s), s))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(fmt.Sprintf("%s: how long?", p.Title)).
				Description("esc to pick another pattern").
				Key(keyDuration).
				Options(options...).
				Value(&secs),
		),
	).WithShowHelp(true)
}
