package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/breathe-cli/internal/catalog"
	"github.com/xvierd/breathe-cli/internal/config"
	"github.com/xvierd/breathe-cli/internal/domain"
	"github.com/xvierd/breathe-cli/internal/ports"
	"github.com/xvierd/breathe-cli/internal/services"
)

func key(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// recordingNotifier records completed sessions.
type recordingNotifier struct {
	calls []domain.Summary
	err   error
}

func (n *recordingNotifier) NotifySessionComplete(_ domain.Pattern, s domain.Summary) error {
	n.calls = append(n.calls, s)
	return n.err
}

func (n *recordingNotifier) IsEnabled() bool { return true }

var _ ports.Notifier = (*recordingNotifier)(nil)

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

type appHarness struct {
	t     *testing.T
	clock *services.VirtualClock
	app   App
	// last is the command returned by the most recent update.
	last tea.Cmd
}

func newAppHarness(t *testing.T, opts ...AppOption) *appHarness {
	t.Helper()
	clock := services.NewVirtualClock(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	svc := services.NewPatternService(catalog.Default(), nil)
	h := &appHarness{t: t, clock: clock, app: NewApp(svc, clock, config.DefaultConfig(), opts...)}
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

func (h *appHarness) send(msg tea.Msg) {
	next, cmd := h.app.Update(msg)
	h.app = next.(App)
	h.last = cmd
}

// advance moves virtual time forward, feeding due runner events to the app.
func (h *appHarness) advance(d time.Duration) {
	h.clock.Advance(d, func(ev ports.Event) {
		h.send(runnerMsg{ev: ev})
	})
}

// start runs Init and feeds its start message back in.
func (h *appHarness) start() {
	h.t.Helper()
	cmd := h.app.Init()
	require.NotNil(h.t, cmd)
	msg := cmd()
	require.IsType(h.t, startMsg{}, msg)
	h.send(msg)
}

func sessionFor(t *testing.T, id string) domain.SessionConfig {
	t.Helper()
	cfg, err := domain.NewSessionConfig(catalog.Default().MustLookup(id), 0, 0)
	require.NoError(t, err)
	return cfg
}

func TestApp_LoadingUntilSized(t *testing.T) {
	svc := services.NewPatternService(catalog.Default(), nil)
	app := NewApp(svc, services.NewVirtualClock(time.Time{}), nil)

	assert.Equal(t, "Loading...", app.View())
}

func TestApp_CompletedSessionNotifiesAndQuits(t *testing.T) {
	notifier := &recordingNotifier{}
	h := newAppHarness(t,
		WithSession(sessionFor(t, catalog.Grounding)),
		WithExitOnEnd(),
		WithNotifier(notifier),
	)
	h.start()
	require.Equal(t, screenExercise, h.app.screen)

	h.advance(121 * time.Second)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, domain.StopReasonDuration, notifier.calls[0].Reason)
	assert.Equal(t, 12, notifier.calls[0].Cycles)

	require.NotNil(t, h.app.LastSummary())
	assert.Equal(t, 120, h.app.LastSummary().ElapsedSeconds)
	assert.Nil(t, h.app.runner)
	assert.True(t, isQuit(h.last))
}

func TestApp_NotifierErrorIsNotFatal(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("no dbus")}
	h := newAppHarness(t, WithSession(sessionFor(t, catalog.Sleep)), WithNotifier(notifier))
	h.start()

	h.advance(80 * time.Second)

	require.Len(t, notifier.calls, 1)
	require.NotNil(t, h.app.LastSummary())
	assert.Equal(t, domain.StopReasonCycles, h.app.LastSummary().Reason)
}

func TestApp_ReturnsToSelectionAfterSession(t *testing.T) {
	h := newAppHarness(t, WithSession(sessionFor(t, catalog.Sleep)))
	h.start()

	h.advance(80 * time.Second)

	assert.Equal(t, screenSelect, h.app.screen)
	assert.NotNil(t, h.app.patternForm)
	assert.False(t, isQuit(h.last))
	assert.Contains(t, h.app.View(), "Last session completed")
}

func TestApp_ManualStopSkipsNotification(t *testing.T) {
	notifier := &recordingNotifier{}
	h := newAppHarness(t, WithSession(sessionFor(t, catalog.Grounding)), WithNotifier(notifier), WithExitOnEnd())
	h.start()
	h.advance(5 * time.Second)

	h.send(key("x"))
	require.NotNil(t, h.app.runner, "the summary arrives through the event loop")
	h.advance(0)

	assert.Empty(t, notifier.calls)
	require.NotNil(t, h.app.LastSummary())
	assert.Equal(t, domain.StopReasonManual, h.app.LastSummary().Reason)
	assert.Equal(t, 5, h.app.LastSummary().ElapsedSeconds)
	assert.True(t, isQuit(h.last))
}

func TestApp_EscStopsExercise(t *testing.T) {
	h := newAppHarness(t, WithSession(sessionFor(t, catalog.Calm)))
	h.start()
	h.advance(3 * time.Second)

	h.send(key("esc"))
	h.advance(0)

	require.NotNil(t, h.app.LastSummary())
	assert.Equal(t, domain.StopReasonManual, h.app.LastSummary().Reason)
	assert.Equal(t, screenSelect, h.app.screen)
}

func TestApp_QuitCancelsWithoutSummary(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			notifier := &recordingNotifier{}
			h := newAppHarness(t, WithSession(sessionFor(t, catalog.Focus)), WithNotifier(notifier))
			h.start()
			h.advance(5 * time.Second)

			h.send(key(k))

			assert.True(t, isQuit(h.last))
			assert.Nil(t, h.app.runner)
			assert.Zero(t, h.clock.Pending(), "no timer may outlive the session")
			h.advance(time.Hour)
			assert.Nil(t, h.app.LastSummary())
			assert.Empty(t, notifier.calls)
		})
	}
}

func TestApp_ToggleSeconds(t *testing.T) {
	h := newAppHarness(t, WithSession(sessionFor(t, catalog.Grounding)))
	h.start()
	h.advance(time.Second)
	require.False(t, h.app.showSeconds)

	h.send(key("s"))
	assert.True(t, h.app.showSeconds)
	assert.Contains(t, h.app.View(), "hide seconds")

	h.send(key("s"))
	assert.False(t, h.app.showSeconds)
	assert.Contains(t, h.app.View(), "show seconds")
}

func TestApp_ExerciseView(t *testing.T) {
	h := newAppHarness(t, WithSession(sessionFor(t, catalog.Grounding)))
	h.start()
	h.advance(time.Second)

	view := h.app.View()
	assert.Contains(t, view, "Grounding")
	assert.Contains(t, view, "Inhale")
	assert.Contains(t, view, "00:01 / 02:00")
}

func TestApp_FrameTicks(t *testing.T) {
	h := newAppHarness(t, WithSession(sessionFor(t, catalog.Grounding)))
	h.start()
	id := h.app.runner.ID()

	h.send(frameMsg{session: id})
	assert.NotNil(t, h.last, "a live session keeps redrawing")

	h.send(frameMsg{session: "stale"})
	assert.Nil(t, h.last)

	h.send(key("q"))
	h.send(frameMsg{session: id})
	assert.Nil(t, h.last, "frames stop once the session is gone")
}

func TestApp_IgnoresForeignSessionEnded(t *testing.T) {
	h := newAppHarness(t, WithSession(sessionFor(t, catalog.Grounding)))
	h.start()

	h.send(runnerMsg{ev: services.SessionEnded{Summary: domain.Summary{SessionID: "someone-else"}}})

	assert.NotNil(t, h.app.runner)
	assert.Nil(t, h.app.LastSummary())
}

func TestApp_ChoosePattern(t *testing.T) {
	t.Run("cycle pattern starts immediately", func(t *testing.T) {
		h := newAppHarness(t)
		next, cmd := h.app.choosePattern(catalog.Sleep)

		assert.NotNil(t, cmd)
		assert.Equal(t, screenExercise, next.screen)
		require.NotNil(t, next.runner)
		assert.Equal(t, domain.CycleRule(4), next.runner.Config().Rule)
	})

	t.Run("duration pattern asks for a duration", func(t *testing.T) {
		h := newAppHarness(t)
		next, _ := h.app.choosePattern(catalog.Focus)

		assert.Equal(t, screenSelect, next.screen)
		assert.NotNil(t, next.durationForm)
		assert.Nil(t, next.runner)

		started, _ := next.chooseDuration(240)
		require.NotNil(t, started.runner)
		assert.Equal(t, domain.DurationRule(240), started.runner.Config().Rule)
	})

	t.Run("unknown pattern shows an error", func(t *testing.T) {
		h := newAppHarness(t)
		next, _ := h.app.choosePattern("nope")

		assert.ErrorIs(t, next.err, domain.ErrUnknownPattern)
		assert.Equal(t, screenSelect, next.screen)
		assert.NotNil(t, next.patternForm)
	})
}

func TestApp_EscNavigation(t *testing.T) {
	h := newAppHarness(t)
	next, _ := h.app.choosePattern(catalog.Calm)
	h.app = next
	require.NotNil(t, h.app.durationForm)

	h.send(key("esc"))
	assert.Nil(t, h.app.durationForm, "esc goes back to the pattern list")
	assert.NotNil(t, h.app.patternForm)
	assert.False(t, isQuit(h.last))

	h.send(key("esc"))
	assert.True(t, isQuit(h.last))
}

func TestSessionLine(t *testing.T) {
	byTime := domain.Snapshot{Rule: domain.DurationRule(120), ElapsedSeconds: 61, Cycles: 6}
	assert.Equal(t, "01:01 / 02:00  ·  6 cycles", sessionLine(byTime))

	byCycles := domain.Snapshot{Rule: domain.CycleRule(4), ElapsedSeconds: 20, Cycles: 1}
	assert.Equal(t, "cycle 2 of 4  ·  00:20", sessionLine(byCycles))

	done := domain.Snapshot{Rule: domain.CycleRule(4), ElapsedSeconds: 76, Cycles: 4}
	assert.True(t, strings.HasPrefix(sessionLine(done), "cycle 4 of 4"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{2 * time.Minute, "02:00"},
		{90 * time.Second, "01:30"},
		{0, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatDuration(tt.duration); got != tt.want {
				t.Errorf("formatDuration(%v) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}
