package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/0xlemi/rtuner/internal/tuner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// Deviation shown at either end of the gauge, in cents
	gaugeBound = 30.0

	// Gauge width in cells, odd so zero has its own cell
	gaugeWidth = 41
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	lockedStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Padding(1, 3)

	// Note colors
	noteColors = map[string]string{
		"C": "#E8D6B0", // Beige
		"D": "#A020F0", // Purple
		"E": "#FFFF00", // Yellow
		"F": "#FFA500", // Orange
		"G": "#00FF00", // Green
		"A": "#FF0000", // Red
		"B": "#0000FF", // Blue
	}
)

// Get the next natural note, whose color fills the right half of a sharp
func getNextNote(note string) string {
	switch note {
	case "C":
		return "D"
	case "D":
		return "E"
	case "E":
		return "F"
	case "F":
		return "G"
	case "G":
		return "A"
	case "A":
		return "B"
	default:
		return "C"
	}
}

// Source provides the state the UI renders
type Source interface {
	Snapshot() tuner.Reading
	StreamError() error
}

// TickMsg represents a timer tick
type TickMsg time.Time

// Model represents the UI state
type Model struct {
	source    Source
	interval  time.Duration
	reading   tuner.Reading
	streamErr error
	width     int
	height    int
}

// NewModel creates a UI model that polls source every interval
func NewModel(source Source, interval time.Duration) Model {
	return Model{
		source:   source,
		interval: interval,
		reading:  source.Snapshot(),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init initializes the UI model
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update updates the UI model based on messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		m.reading = m.source.Snapshot()
		m.streamErr = m.source.StreamError()
		return m, m.tick()
	}

	return m, nil
}

// Reading returns the reading currently on screen
func (m Model) Reading() tuner.Reading {
	return m.reading
}

// View renders the UI
func (m Model) View() string {
	s := titleStyle.Render("rtuner - Chromatic Tuner")
	s += "\n"

	r := m.reading
	s += renderBadge(r)
	s += "\n"

	valueStyle := unlockedStyle
	if r.Locked {
		valueStyle = lockedStyle
	}

	if r.HasNote {
		s += valueStyle.Render(fmt.Sprintf("%s %+6.2f cents", r.Label, r.AvgCents))
	} else {
		s += infoStyle.Render("Listening for audio...")
	}
	s += "\n\n"
	s += valueStyle.Render(renderGauge(r.AvgCents, gaugeWidth))
	s += "\n"

	if m.streamErr != nil {
		s += "\n" + errorStyle.Render("Audio: "+m.streamErr.Error())
	}

	s += "\n\n"
	s += infoStyle.Render("Press q to quit")

	return s
}

// renderBadge draws the note label on its note color. Sharps are split
// between their natural and the next natural's color.
func renderBadge(r tuner.Reading) string {
	if !r.HasNote {
		return badgeStyle.Background(lipgloss.Color("#444444")).Render(r.Label)
	}

	base := r.Label[:1]
	if !strings.HasPrefix(r.Label[1:], "#") {
		return badgeStyle.Background(lipgloss.Color(noteColors[base])).Render(r.Label)
	}

	left := badgeStyle.
		Background(lipgloss.Color(noteColors[base])).
		BorderRight(false).
		PaddingRight(1)
	right := badgeStyle.
		Background(lipgloss.Color(noteColors[getNextNote(base)])).
		BorderLeft(false).
		PaddingLeft(1)
	return lipgloss.JoinHorizontal(lipgloss.Top, left.Render(base), right.Render(r.Label[1:]))
}

// renderGauge draws a horizontal scale from -gaugeBound to +gaugeBound cents
// with a marker at cents. Values past the ends are pinned to the last cell.
func renderGauge(cents float64, width int) string {
	clamped := math.Max(-gaugeBound, math.Min(gaugeBound, cents))
	center := width / 2
	marker := int(math.Round((clamped + gaugeBound) / (2 * gaugeBound) * float64(width-1)))

	cells := make([]rune, width)
	for i := range cells {
		switch {
		case i == marker:
			cells[i] = '█'
		case i == center:
			cells[i] = '|'
		default:
			cells[i] = '·'
		}
	}
	return fmt.Sprintf("-%.0f %s +%.0f", gaugeBound, string(cells), gaugeBound)
}
