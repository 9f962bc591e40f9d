// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/breathe-cli/internal/config"
	"github.com/xvierd/breathe-cli/internal/domain"
	"github.com/xvierd/breathe-cli/internal/logging"
	"github.com/xvierd/breathe-cli/internal/ports"
	"github.com/xvierd/breathe-cli/internal/services"
)

// frameInterval paces redraws while the circle animates.
const frameInterval = 100 * time.Millisecond

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// Patterns is what the app needs from the pattern catalog.
type Patterns interface {
	Patterns() []domain.Pattern
	Lookup(id string) (domain.Pattern, error)
}

type screen int

const (
	screenSelect screen = iota
	screenExercise
)

// startMsg asks the app to start a session without going through selection.
type startMsg struct {
	cfg domain.SessionConfig
}

// frameMsg triggers a redraw. It never changes session state.
type frameMsg struct {
	session string
}

// App is the root model: a selection screen followed by the exercise
// screen, looping until the user quits.
type App struct {
	ctx      context.Context
	patterns Patterns
	clock    ports.Clock
	notifier ports.Notifier
	log      *logging.Logger

	theme          config.ThemeConfig
	selection      config.SelectionConfig
	defaultPattern string
	exitOnEnd      bool
	initial        *domain.SessionConfig

	screen       screen
	patternForm  *huh.Form
	durationForm *huh.Form
	chosen       domain.Pattern

	runner      *services.Runner
	showSeconds bool
	progress    progress.Model
	width       int
	height      int

	last *domain.Summary
	err  error
}

// AppOption configures an App.
type AppOption func(*App)

// WithSession skips selection and starts cfg immediately.
func WithSession(cfg domain.SessionConfig) AppOption {
	return func(a *App) {
		a.initial = &cfg
	}
}

// WithExitOnEnd quits the program when the first session ends instead of
// returning to selection.
func WithExitOnEnd() AppOption {
	return func(a *App) {
		a.exitOnEnd = true
	}
}

// WithNotifier sets the notifier fired when a session completes.
func WithNotifier(n ports.Notifier) AppOption {
	return func(a *App) {
		a.notifier = n
	}
}

// WithLogger sets the logger handed to every runner.
func WithLogger(l *logging.Logger) AppOption {
	return func(a *App) {
		a.log = l
	}
}

// WithClock replaces the clock runners are built on.
func WithClock(c ports.Clock) AppOption {
	return func(a *App) {
		a.clock = c
	}
}

// NewApp creates the root model.
func NewApp(patterns Patterns, clock ports.Clock, cfg *config.Config, opts ...AppOption) App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := App{
		ctx:            context.Background(),
		patterns:       patterns,
		clock:          clock,
		theme:          resolveTheme(&cfg.Theme),
		selection:      cfg.Selection,
		defaultPattern: cfg.DefaultPattern,
		showSeconds:    cfg.ShowSeconds,
		progress:       progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	for _, opt := range opts {
		opt(&a)
	}
	if a.initial == nil {
		a.patternForm = newPatternForm(a.patterns.Patterns(), a.defaultPattern)
	}
	return a
}

// Init initializes the TUI.
func (m App) Init() tea.Cmd {
	if m.initial != nil {
		cfg := *m.initial
		return func() tea.Msg { return startMsg{cfg: cfg} }
	}
	return m.patternForm.Init()
}

// LastSummary returns the outcome of the most recent session, if any.
func (m App) LastSummary() *domain.Summary {
	return m.last
}

// Update handles messages and updates the model.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-8, 4*maxRadius+1)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.teardown()
			return m, tea.Quit
		}

	case startMsg:
		return m.begin(msg.cfg)

	case runnerMsg:
		return m.handleRunner(msg.ev)

	case frameMsg:
		if m.screen == screenExercise && m.runner != nil && m.runner.ID() == msg.session && !m.runner.Ended() {
			return m, frameCmd(msg.session)
		}
		return m, nil
	}

	if m.screen == screenExercise {
		return m.updateExercise(msg)
	}
	return m.updateSelection(msg)
}

func (m App) updateSelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		if m.durationForm != nil {
			m.durationForm = nil
			m.patternForm = newPatternForm(m.patterns.Patterns(), m.chosen.ID)
			return m, m.patternForm.Init()
		}
		return m, tea.Quit
	}

	if m.durationForm != nil {
		formModel, cmd := m.durationForm.Update(msg)
		m.durationForm = formModel.(*huh.Form)
		switch m.durationForm.State {
		case huh.StateCompleted:
			secs := m.durationForm.GetInt(keyDuration)
			m.durationForm = nil
			next, startCmd := m.chooseDuration(secs)
			return next, tea.Batch(cmd, startCmd)
		case huh.StateAborted:
			return m, tea.Quit
		}
		return m, cmd
	}

	if m.patternForm == nil {
		return m, nil
	}
	formModel, cmd := m.patternForm.Update(msg)
	m.patternForm = formModel.(*huh.Form)
	switch m.patternForm.State {
	case huh.StateCompleted:
		id := m.patternForm.GetString(keyPattern)
		next, nextCmd := m.choosePattern(id)
		return next, tea.Batch(cmd, nextCmd)
	case huh.StateAborted:
		return m, tea.Quit
	}
	return m, cmd
}

// choosePattern moves on from the pattern form. Cycle-limited patterns
// start straight away; the rest ask for a duration.
func (m App) choosePattern(id string) (App, tea.Cmd) {
	p, err := m.patterns.Lookup(id)
	if err != nil {
		m.err = err
		return m, m.resetSelection()
	}
	m.chosen = p
	m.patternForm = nil

	if p.UsesCycles() {
		cfg, err := domain.NewSessionConfig(p, 0, 0)
		if err != nil {
			m.err = err
			return m, m.resetSelection()
		}
		return m.begin(cfg)
	}

	m.durationForm = newDurationForm(p, m.selection, p.DefaultDuration)
	return m, m.durationForm.Init()
}

func (m App) chooseDuration(seconds int) (App, tea.Cmd) {
	cfg, err := domain.NewSessionConfig(m.chosen, seconds, 0)
	if err != nil {
		m.err = err
		return m, m.resetSelection()
	}
	return m.begin(cfg)
}

// begin builds a runner for cfg and starts it.
func (m App) begin(cfg domain.SessionConfig) (App, tea.Cmd) {
	r, err := services.NewRunner(cfg, m.clock, services.WithLogger(m.log))
	if err != nil {
		m.err = err
		m.log.Error("cannot start %s: %v", cfg.Pattern.ID, err)
		return m, m.resetSelection()
	}

	m.runner = r
	m.chosen = cfg.Pattern
	m.screen = screenExercise
	m.err = nil
	m.progress = progress.New(
		progress.WithGradient(cfg.Pattern.Gradient.Start, cfg.Pattern.Gradient.End),
		progress.WithoutPercentage(),
	)
	m.progress.Width = min(m.width-8, 4*maxRadius+1)

	waits := r.Start(m.ctx)
	return m, tea.Batch(waitCmds(waits), frameCmd(r.ID()))
}

func (m App) handleRunner(ev ports.Event) (tea.Model, tea.Cmd) {
	if m.runner == nil {
		return m, nil
	}
	if end, ok := ev.(services.SessionEnded); ok {
		if end.Summary.SessionID != m.runner.ID() {
			return m, nil
		}
		m.runner.Handle(ev)
		return m.finish(end.Summary)
	}
	return m, waitCmds(m.runner.Handle(ev))
}

// finish runs once per session, on SessionEnded.
func (m App) finish(sum domain.Summary) (tea.Model, tea.Cmd) {
	pattern := m.runner.Config().Pattern
	if sum.Completed() && m.notifier != nil {
		if err := m.notifier.NotifySessionComplete(pattern, sum); err != nil {
			m.log.Error("notification failed: %v", err)
		}
	}

	m.last = &sum
	m.runner = nil
	if m.exitOnEnd {
		return m, tea.Quit
	}
	m.screen = screenSelect
	return m, m.resetSelection()
}

func (m App) updateExercise(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || m.runner == nil {
		return m, nil
	}

	switch key.String() {
	case "s":
		m.showSeconds = !m.showSeconds
	case "x", "esc":
		return m, waitCmds(m.runner.Stop())
	case "q":
		m.teardown()
		return m, tea.Quit
	}
	return m, nil
}

// resetSelection shows a fresh pattern form.
func (m *App) resetSelection() tea.Cmd {
	m.screen = screenSelect
	m.durationForm = nil
	selected := m.chosen.ID
	if selected == "" {
		selected = m.defaultPattern
	}
	m.patternForm = newPatternForm(m.patterns.Patterns(), selected)
	return m.patternForm.Init()
}

// teardown cancels the live runner, if any, without reporting an outcome.
func (m *App) teardown() {
	if m.runner != nil {
		m.runner.Cancel()
		m.runner = nil
	}
}

// View renders the TUI.
func (m App) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string
	if m.screen == screenExercise && m.runner != nil {
		sections = m.viewExercise()
	} else {
		sections = m.viewSelection()
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m App) viewSelection() []string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorMuted))

	sections := []string{titleStyle.Render("🌬 breathe")}

	if m.durationForm != nil {
		sections = append(sections, m.durationForm.View())
	} else if m.patternForm != nil {
		sections = append(sections, m.patternForm.View())
	}

	if m.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C"))
		sections = append(sections, "", errStyle.Render(m.err.Error()))
	}

	if m.last != nil {
		sections = append(sections, "", mutedStyle.Render(lastSessionLine(*m.last)))
	}

	sections = append(sections, "", helpStyle.Render("enter select  esc back/quit"))
	return sections
}

func lastSessionLine(s domain.Summary) string {
	verb := "completed"
	if !s.Completed() {
		verb = "stopped"
	}
	return fmt.Sprintf("Last session %s: %s, %d cycles in %s", verb, s.PatternID, s.Cycles, formatDuration(s.Elapsed))
}

func (m App) viewExercise() []string {
	snap := m.runner.Snapshot()
	frame := Present(snap, m.showSeconds)
	pattern := snap.Pattern
	textColor := lipgloss.Color(pattern.TextColor)

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(textColor).MarginBottom(1)
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorMuted))

	sections := []string{titleStyle.Render(pattern.Title)}

	radius := fitRadius(m.width, m.height)
	sections = append(sections, renderCircle(frame, pattern, radius, lipgloss.Color(m.theme.ColorTrack)))

	sections = append(sections, "")
	if frame.Remaining != "" {
		sections = append(sections, renderBigNumber(frame.Remaining, textColor, m.width))
	} else {
		sections = append(sections, mutedStyle.Render(pattern.Rhythm()))
	}

	sections = append(sections, "")
	sections = append(sections, mutedStyle.Render(sessionLine(snap)))
	sections = append(sections, m.progress.ViewAs(frame.Progress))

	secondsLabel := "show"
	if m.showSeconds {
		secondsLabel = "hide"
	}
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf("[s] %s seconds  [x] stop  [q]uit", secondsLabel)))
	return sections
}

// sessionLine describes progress against the stop rule.
func sessionLine(s domain.Snapshot) string {
	elapsed := time.Duration(s.ElapsedSeconds) * time.Second
	if s.Rule.Kind == domain.StopByCycles {
		return fmt.Sprintf("cycle %d of %d  ·  %s", min(s.Cycles+1, s.Rule.Cycles), s.Rule.Cycles, formatDuration(elapsed))
	}
	total := time.Duration(s.Rule.Seconds) * time.Second
	return fmt.Sprintf("%s / %s  ·  %d cycles", formatDuration(elapsed), formatDuration(total), s.Cycles)
}

// frameCmd schedules the next redraw.
func frameCmd(session string) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{session: session}
	})
}

// formatDuration formats a duration as MM:SS.
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
