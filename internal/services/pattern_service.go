// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xvierd/breathe-cli/internal/catalog"
	"github.com/xvierd/breathe-cli/internal/domain"
	"github.com/xvierd/breathe-cli/internal/logging"
)

// PatternService handles catalog and planning use cases.
type PatternService struct {
	catalog *catalog.Catalog
	log     *logging.Logger
}

// NewPatternService creates a new pattern service.
func NewPatternService(c *catalog.Catalog, log *logging.Logger) *PatternService {
	return &PatternService{catalog: c, log: log}
}

// Patterns returns every pattern in catalog order.
func (s *PatternService) Patterns() []domain.Pattern {
	return s.catalog.Patterns()
}

// Lookup returns a single pattern by id.
func (s *PatternService) Lookup(id string) (domain.Pattern, error) {
	return s.catalog.Lookup(id)
}

// Suggest returns catalog ids close to an unknown id.
func (s *PatternService) Suggest(id string) []string {
	return s.catalog.Suggest(id)
}

// SessionRequest contains the data needed to configure a session.
type SessionRequest struct {
	PatternID       string
	DurationSeconds int
	CycleLimit      int
}

// NewSession builds the configuration for one session. Zero limits fall
// back to the pattern defaults.
func (s *PatternService) NewSession(req SessionRequest) (domain.SessionConfig, error) {
	p, err := s.catalog.Lookup(req.PatternID)
	if err != nil {
		return domain.SessionConfig{}, err
	}
	cfg, err := domain.NewSessionConfig(p, req.DurationSeconds, req.CycleLimit)
	if err != nil {
		return domain.SessionConfig{}, fmt.Errorf("invalid session: %w", err)
	}
	return cfg, nil
}

// MaxPlanLength is the longest session Plan will rehearse.
const MaxPlanLength = 24 * time.Hour

// Plan rehearses a session without waiting in real time. Sessions longer
// than MaxPlanLength are rejected with domain.ErrInvalidStopRule.
func (s *PatternService) Plan(ctx context.Context, patternID string, durationSeconds, cycleLimit int) (domain.Timeline, error) {
	cfg, err := s.NewSession(SessionRequest{
		PatternID:       patternID,
		DurationSeconds: durationSeconds,
		CycleLimit:      cycleLimit,
	})
	if err != nil {
		return domain.Timeline{}, err
	}
	if err := checkPlanLength(cfg); err != nil {
		return domain.Timeline{}, err
	}

	tl, err := Rehearse(ctx, cfg)
	if err != nil {
		return domain.Timeline{}, fmt.Errorf("failed to plan %s: %w", patternID, err)
	}
	s.log.Debug("planned %s: %d transitions, %s", patternID, len(tl.Transitions), tl.Summary.Elapsed)
	return tl, nil
}

// checkPlanLength bounds the rehearsal, which keeps every transition in
// memory.
func checkPlanLength(cfg domain.SessionConfig) error {
	limit := int(MaxPlanLength / time.Second)
	seconds := cfg.Rule.Seconds
	if cfg.Rule.Kind == domain.StopByCycles {
		cycle := cfg.Pattern.CycleSeconds()
		if cycle > 0 && cfg.Rule.Cycles > limit/cycle {
			return fmt.Errorf("%w: %d cycles of %s run longer than %s", domain.ErrInvalidStopRule, cfg.Rule.Cycles, cfg.Pattern.ID, MaxPlanLength)
		}
		seconds = cfg.Rule.Cycles * cycle
	}
	if seconds > limit {
		return fmt.Errorf("%w: %s is longer than %s", domain.ErrInvalidStopRule, time.Duration(seconds)*time.Second, MaxPlanLength)
	}
	return nil
}
