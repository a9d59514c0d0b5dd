package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/decsim/decsim/internal/config"
	"github.com/decsim/decsim/internal/floatref"
	"github.com/decsim/decsim/internal/metrics"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	trailCapacity   = 400
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type pixel struct{ x, y int }

// Model drives the live orbit view. It steps the float shadow engine,
// which tracks the decimal integration closely enough for a terminal
// display while staying cheap enough to run per frame.
type Model struct {
	scn           *config.Scenario
	sim           *floatref.Simulator
	canvas        *Canvas
	trails        map[string][]pixel
	energyHistory []float64
	initialEnergy float64
	scale         float64
	zoom          float64
	fps           int
	stepsPerFrame int
	steps         int
	running       bool
	err           error
}

func NewModel(scn *config.Scenario, fps, stepsPerFrame int) (Model, error) {
	sim, err := floatref.FromScenario(scn)
	if err != nil {
		return Model{}, err
	}
	if fps <= 0 {
		fps = 30
	}
	if stepsPerFrame <= 0 {
		stepsPerFrame = 1
	}

	m := Model{
		scn:           scn,
		sim:           sim,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		trails:        make(map[string][]pixel),
		energyHistory: make([]float64, 0, historyCapacity),
		initialEnergy: sim.TotalEnergy(),
		zoom:          1,
		fps:           fps,
		stepsPerFrame: stepsPerFrame,
		running:       true,
	}
	m.scale = m.fitScale()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			m.zoom *= 1.25
			m.clearTrails()
		case "-", "_":
			m.zoom /= 1.25
			m.clearTrails()
		}
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		if err := m.sim.Step(); err != nil {
			m.err = err
			m.running = false
			return
		}
		m.steps++
	}

	m.energyHistory = append(m.energyHistory, m.sim.TotalEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	sim, err := floatref.FromScenario(m.scn)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.sim = sim
	m.steps = 0
	m.err = nil
	m.energyHistory = m.energyHistory[:0]
	m.clearTrails()
	m.running = true
}

func (m *Model) clearTrails() {
	for name := range m.trails {
		delete(m.trails, name)
	}
}

// fitScale fixes pixels-per-meter so the initial configuration fills
// the canvas with a margin. Trails live in screen space, so the scale
// stays put during a run; +/- layer zoom on top.
func (m *Model) fitScale() float64 {
	rmax := 0.0
	for _, b := range m.sim.Bodies() {
		rmax = math.Max(rmax, math.Max(math.Abs(b.Position.X), math.Abs(b.Position.Y)))
	}
	if rmax == 0 {
		return 1
	}
	half := float64(min(m.canvas.PixelWidth(), m.canvas.PixelHeight()))/2 - 6
	return half / rmax
}

// draw projects the XY plane onto the canvas, body markers on top of
// their trails.
func (m *Model) draw() {
	m.canvas.Clear()
	cx, cy := m.canvas.PixelWidth()/2, m.canvas.PixelHeight()/2
	scale := m.scale * m.zoom

	for _, b := range m.sim.Bodies() {
		px := cx + int(b.Position.X*scale)
		py := cy - int(b.Position.Y*scale)

		trail := append(m.trails[b.Name], pixel{px, py})
		if len(trail) > trailCapacity {
			trail = trail[1:]
		}
		m.trails[b.Name] = trail

		for _, pt := range trail {
			m.canvas.Set(pt.x, pt.y)
		}
		m.canvas.Blot(px, py, 1)
	}
}

func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scn.Name)) + "\n")

	status := "RUNNING"
	if m.err != nil {
		status = "STOPPED: " + m.err.Error()
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	energy := m.sim.TotalEnergy()
	drift := metrics.RelativeDrift(m.initialEnergy, energy)

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f s", m.sim.Time())) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.steps)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Len())) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.6g J", energy)) + "\n")
	s.WriteString(labelStyle.Render("Drift") + valueStyle.Render(fmt.Sprintf("%.3g", drift)) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.2fx", m.zoom)) + "\n")

	s.WriteString(helpStyle.Render("space:pause  r:reset  +/-:zoom  q:quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
}
