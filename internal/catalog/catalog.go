// Package catalog holds the immutable set of breathing patterns available to
// a run of breathe. The selection screen, the CLI and the MCP server all ask
// the catalog for patterns instead of hard-coding them.
package catalog

import (
	"fmt"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/breathe-cli/internal/domain"
)

// Built-in pattern identifiers.
const (
	Grounding = "grounding"
	Calm      = "calm"
	Focus     = "focus"
	Sleep     = "sleep"
)

// Builtin returns the patterns shipped with breathe, in display order.
func Builtin() []domain.Pattern {
	return []domain.Pattern{
		{
			ID:              Grounding,
			Title:           "Grounding",
			Label:           "Grounding (4-0-6s)",
			Inhale:          4,
			Exhale:          6,
			DefaultDuration: 120,
			Gradient:        domain.Gradient{Start: "#89CFF0", End: "#4A90D9"},
			TextColor:       "#365C7D",
		},
		{
			ID:              Calm,
			Title:           "Calm & Rest",
			Label:           "Calm & Rest (5-0-5s)",
			Inhale:          5,
			Exhale:          5,
			DefaultDuration: 300,
			Gradient:        domain.Gradient{Start: "#A8E6CF", End: "#56AB2F"},
			TextColor:       "#2E7D32",
		},
		{
			ID:              Focus,
			Title:           "Focus",
			Label:           "Focus (4-4-4-4s)",
			Inhale:          4,
			Hold:            4,
			Exhale:          4,
			HoldEmpty:       4,
			DefaultDuration: 180,
			Gradient:        domain.Gradient{Start: "#FFB347", End: "#FF7043"},
			TextColor:       "#D84315",
		},
		{
			ID:            Sleep,
			Title:         "Sleep & Relax",
			Label:         "Sleep & Relax (4-7-8s)",
			Inhale:        4,
			Hold:          7,
			Exhale:        8,
			DefaultCycles: 4,
			Gradient:      domain.Gradient{Start: "#B39DDB", End: "#5E35B1"},
			TextColor:     "#4527A0",
		},
	}
}

// Catalog maps pattern ids to patterns. It is never mutated after New.
type Catalog struct {
	order    []string
	patterns map[string]domain.Pattern
}

// New builds a catalog from the built-in patterns followed by extra ones.
// Every pattern is validated; an id may appear only once.
func New(extra ...domain.Pattern) (*Catalog, error) {
	all := append(Builtin(), extra...)
	c := &Catalog{
		order:    make([]string, 0, len(all)),
		patterns: make(map[string]domain.Pattern, len(all)),
	}
	for _, p := range all {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.patterns[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicatePattern, p.ID)
		}
		if p.Title == "" {
			p.Title = p.ID
		}
		if p.Label == "" {
			p.Label = fmt.Sprintf("%s (%ss)", p.Title, p.Rhythm())
		}
		c.order = append(c.order, p.ID)
		c.patterns[p.ID] = p
	}
	return c, nil
}

// Default returns the catalog of built-in patterns.
func Default() *Catalog {
	c, err := New()
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in patterns are invalid: %v", err))
	}
	return c
}

// Lookup returns the pattern registered under id.
func (c *Catalog) Lookup(id string) (domain.Pattern, error) {
	p, ok := c.patterns[id]
	if !ok {
		return domain.Pattern{}, fmt.Errorf("%w: %q", domain.ErrUnknownPattern, id)
	}
	return p, nil
}

// MustLookup is Lookup for ids taken from the catalog itself. An unknown id
// there is a programming error.
func (c *Catalog) MustLookup(id string) domain.Pattern {
	p, err := c.Lookup(id)
	if err != nil {
		panic(err)
	}
	return p
}

// IDs returns the pattern ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Patterns returns the patterns in catalog order.
func (c *Catalog) Patterns() []domain.Pattern {
	out := make([]domain.Pattern, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.patterns[id])
	}
	return out
}

// Len returns the number of patterns.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Suggest returns the ids that fuzzily match query, best match first.
func (c *Catalog) Suggest(query string) []string {
	matches := fuzzy.Find(query, c.order)

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, c.order[match.Index])
	}
	return out
}
