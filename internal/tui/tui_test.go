package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/mycounter"
)

func newModel(attrs map[string]string, opts ...Option) Model {
	return New(mycounter.New(mycounter.WithAttributes(attrs)), opts...)
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok, "Update returned %T", next)
	return out, cmd
}

func TestNewMountsCounter(t *testing.T) {
	m := newModel(map[string]string{"value": "4"})

	assert.True(t, m.Counter().Mounted())
	assert.Equal(t, "4", m.Counter().DisplayText())
	assert.Nil(t, m.Init())
}

// incrementAt returns the leftmost and rightmost cells of the increment
// half for the model's current display.
func incrementAt(m Model) (int, int) {
	halfW, badgeW, _ := m.layout()
	return halfW + badgeW, 2*halfW + badgeW - 1
}

func TestClickHalves(t *testing.T) {
	m := newModel(nil)

	m, _ = update(t, m, release(0, barTop))
	assert.Equal(t, float64(-1), m.Counter().Value())

	first, _ := incrementAt(m)
	m, _ = update(t, m, release(first, barTop))
	_, last := incrementAt(m)
	m, _ = update(t, m, release(last, barTop))
	assert.Equal(t, float64(1), m.Counter().Value())

	assert.Contains(t, m.View(), "valueChange 1 (3)")
}

func TestClickIgnored(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.MouseMsg
	}{
		{"badge", release(8, barTop)},
		{"above bar", release(0, barTop-1)},
		{"below bar", release(0, barTop+1)},
		{"past right half", release(200, barTop)},
		{"press", tea.MouseMsg{X: 0, Y: barTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}},
		{"right button", tea.MouseMsg{X: 0, Y: barTop, Action: tea.MouseActionRelease, Button: tea.MouseButtonRight}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(map[string]string{"value": "5"})
			m, _ = update(t, m, tt.msg)
			assert.Equal(t, float64(5), m.Counter().Value())
			assert.Contains(t, m.View(), "no changes yet")
		})
	}
}

func TestClampedClickStillReports(t *testing.T) {
	m := newModel(map[string]string{"max-value": "2", "value": "2"})
	x, _ := incrementAt(m)

	m, _ = update(t, m, release(x, barTop))

	assert.Equal(t, float64(2), m.Counter().Value())
	assert.Contains(t, m.View(), "valueChange 2 (1)")
}

func TestScaleGrowsBar(t *testing.T) {
	small := newModel(nil)
	large := newModel(nil, WithScale(3), WithScale(0))

	sw, _, sh := small.layout()
	lw, _, lh := large.layout()
	assert.Greater(t, lw, sw)
	assert.Greater(t, lh, sh)

	// Every row of the taller bar is clickable.
	m, _ := update(t, large, release(0, barTop+lh-1))
	assert.Equal(t, float64(-1), m.Counter().Value())
}

func TestViewContent(t *testing.T) {
	m := newModel(map[string]string{"value": "12"}, WithTitle("Guests"), WithHelp("How many?"))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	view := m.View()
	assert.Contains(t, view, "Guests")
	assert.Contains(t, view, "12")
	assert.Contains(t, view, "How many?")
	assert.Contains(t, view, "q quit")
	assert.Equal(t, 80, m.width)
}

func TestQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		m := newModel(nil)
		m, cmd := update(t, m, key)

		require.NotNil(t, cmd, "key %q", key.String())
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.False(t, m.Counter().Mounted())
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	m := newModel(nil)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})

	assert.Nil(t, cmd)
	assert.Equal(t, float64(0), m.Counter().Value())
}
