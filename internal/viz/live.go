package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	graphWidth      = 70
	graphHeight     = 14
	historyCapacity = 2000
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// EpochMsg carries one epoch's losses from the trainer to the view.
type EpochMsg struct {
	Epoch int
	Train [2]float64
	Test  [2]float64
}

// DoneMsg signals that training has finished.
type DoneMsg struct{}

// Model is the Bubble Tea model for the live training monitor.
type Model struct {
	title      string
	epoch      int
	trainBC    []float64
	trainRes   []float64
	testBC     []float64
	testRes    []float64
	logScale   bool
	paused     bool
	done       bool
	lastTrain  [2]float64
	lastTest   [2]float64
}

func NewModel(title string) Model {
	return Model{
		title:    title,
		trainBC:  make([]float64, 0, historyCapacity),
		trainRes: make([]float64, 0, historyCapacity),
		testBC:   make([]float64, 0, historyCapacity),
		testRes:  make([]float64, 0, historyCapacity),
		logScale: true,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "l":
			m.logScale = !m.logScale
		}
	case EpochMsg:
		m.epoch = msg.Epoch
		m.lastTrain = msg.Train
		m.lastTest = msg.Test
		if !m.paused {
			m.trainBC = appendCapped(m.trainBC, msg.Train[0])
			m.trainRes = appendCapped(m.trainRes, msg.Train[1])
			m.testBC = appendCapped(m.testBC, msg.Test[0])
			m.testRes = appendCapped(m.testRes, msg.Test[1])
		}
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.title))
	b.WriteString("\n")

	series := [][]float64{
		m.transform(sum2(m.trainBC, m.trainRes)),
		m.transform(sum2(m.testBC, m.testRes)),
	}
	if len(series[0]) >= 2 {
		graph := asciigraph.PlotMany(series,
			asciigraph.Width(graphWidth),
			asciigraph.Height(graphHeight),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
			asciigraph.Caption(m.caption()),
		)
		b.WriteString(graphStyle.Render(graph))
	} else {
		b.WriteString(graphStyle.Render("waiting for epochs..."))
	}
	b.WriteString("\n")

	stats := []string{
		statLine("epoch", fmt.Sprintf("%d", m.epoch)),
		statLine("train bc", fmt.Sprintf("%.4e", m.lastTrain[0])),
		statLine("train residual", fmt.Sprintf("%.4e", m.lastTrain[1])),
		statLine("test bc", fmt.Sprintf("%.4e", m.lastTest[0])),
		statLine("test residual", fmt.Sprintf("%.4e", m.lastTest[1])),
	}
	b.WriteString(statsStyle.Render(strings.Join(stats, "\n")))
	b.WriteString("\n")

	if m.paused {
		b.WriteString(pausedStyle.Render("PAUSED"))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("space pause | l log scale | q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) caption() string {
	scale := "linear"
	if m.logScale {
		scale = "log10"
	}
	return fmt.Sprintf("total loss (%s)  green=train red=test", scale)
}

func (m Model) transform(vals []float64) []float64 {
	if !m.logScale {
		return vals
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v <= 0 {
			v = 1e-16
		}
		out[i] = math.Log10(v)
	}
	return out
}

func statLine(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func appendCapped(s []float64, v float64) []float64 {
	if len(s) >= historyCapacity {
		copy(s, s[1:])
		s = s[:len(s)-1]
	}
	return append(s, v)
}

func sum2(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Live forwards trainer epochs into a running Bubble Tea program. It
// implements the trainer's observer interface.
type Live struct {
	prog *tea.Program
}

func NewLive(prog *tea.Program) *Live { return &Live{prog: prog} }

func (l *Live) OnEpoch(epoch int, train, test [2]float64) {
	l.prog.Send(EpochMsg{Epoch: epoch, Train: train, Test: test})
}

func (l *Live) Done() { l.prog.Send(DoneMsg{}) }
