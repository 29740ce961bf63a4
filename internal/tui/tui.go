// Package tui hosts a counter in the terminal.
//
// The bar is drawn as a decrement half, the value badge and an increment
// half. Left-button releases on a half are delivered to the counter as
// clicks; the badge swallows clicks the same way it covers the middle of
// the bar in a browser.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm/mycounter"
)

// barTop is the first screen row of the bar: a title row and a blank row
// precede it.
const barTop = 2

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	halfStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("0"))
	badgeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 2)
)

// eventLog is shared by all copies of a Model; the document listener
// writes to it.
type eventLog struct {
	count int
	last  float64
}

// Model is a bubbletea model owning one counter mounted in a document.
type Model struct {
	doc     *mycounter.Document
	counter *mycounter.Counter
	events  *eventLog

	title string
	help  string
	scale int

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithTitle replaces the "My Counter" title row.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// WithHelp shows text below the bar.
func WithHelp(help string) Option {
	return func(m *Model) {
		m.help = help
	}
}

// WithScale sets the size multiplier of the bar, like --height does in a
// page. Values below 1 are ignored.
func WithScale(scale int) Option {
	return func(m *Model) {
		if scale >= 1 {
			m.scale = scale
		}
	}
}

// New mounts c in a fresh document and returns a model driving it.
func New(c *mycounter.Counter, opts ...Option) Model {
	m := Model{
		doc:     mycounter.NewDocument(),
		counter: c,
		events:  &eventLog{},
		title:   "My Counter",
		scale:   1,
	}
	for _, opt := range opts {
		opt(&m)
	}

	log := m.events
	m.doc.AddEventListener(mycounter.EventValueChange, func(e mycounter.Event) {
		log.count++
		log.last = e.Detail
	})
	m.doc.Append(c)
	return m
}

// Counter returns the hosted counter.
func (m Model) Counter() *mycounter.Counter {
	return m.counter
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.doc.Remove(m.counter)
			return m, tea.Quit
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if region, ok := m.regionAt(msg.X, msg.Y); ok {
			m.counter.Click(region)
		}
		return m, nil
	}
	return m, nil
}

// layout returns the widths of a half and of the badge and the height of
// the bar.
func (m Model) layout() (halfW, badgeW, barH int) {
	halfW = 6*m.scale + 2
	badgeW = max(len(m.counter.DisplayText())+4, 2*m.scale+3)
	barH = 2*m.scale - 1
	return halfW, badgeW, barH
}

// regionAt maps a screen cell to the half of the bar it lies on.
func (m Model) regionAt(x, y int) (mycounter.Region, bool) {
	halfW, badgeW, barH := m.layout()
	if y < barTop || y >= barTop+barH || x < 0 {
		return 0, false
	}
	switch {
	case x < halfW:
		return mycounter.RegionDecrement, true
	case x >= halfW+badgeW && x < 2*halfW+badgeW:
		return mycounter.RegionIncrement, true
	}
	return 0, false
}

func (m Model) View() string {
	halfW, badgeW, barH := m.layout()

	left := halfStyle.Width(halfW).Height(barH).
		Align(lipgloss.Left, lipgloss.Center).PaddingLeft(1).Render("-")
	badge := badgeStyle.Width(badgeW).Height(barH).
		Align(lipgloss.Center, lipgloss.Center).Render(m.counter.DisplayText())
	right := halfStyle.Width(halfW).Height(barH).
		Align(lipgloss.Right, lipgloss.Center).PaddingRight(1).Render("+")

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, badge, right))
	b.WriteString("\n")
	if m.help != "" {
		b.WriteString(m.help)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("click - / +   q quit"))
	return b.String()
}

func (m Model) status() string {
	if m.events.count == 0 {
		return "no changes yet"
	}
	return fmt.Sprintf("valueChange %s (%d)", mycounter.FormatNumber(m.events.last), m.events.count)
}

// Run starts a full-screen program with mouse support and blocks until the
// user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
