package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/accretion/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	statsWidth      = 44
	historyCapacity = 120
	probabilityStep = 0.01
	rotateStep      = 0.1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the interactive terminal view of one simulation.
type Model struct {
	sim      *sim.Simulation
	scene    *Scene
	canvas   *Canvas
	dt       float64
	title    string
	running  bool
	showHelp bool
	snap     sim.Snapshot
	captures []float64
	err      error
}

// NewModel advances s by dt times the speed multiplier on every tick.
func NewModel(s *sim.Simulation, scene *Scene, dt float64, title string) Model {
	return Model{
		sim:      s,
		scene:    scene,
		canvas:   NewCanvas(defaultWidth-statsWidth, defaultHeight-2),
		dt:       dt,
		title:    title,
		running:  true,
		snap:     s.Snapshot(),
		captures: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas.Resize(max(10, msg.Width-statsWidth-4), max(5, msg.Height-2))
	case tea.KeyMsg:
		m.err = nil
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "up":
			m.sim.SpeedUp()
		case "down":
			m.sim.SpeedDown()
		case "l":
			m.sim.ToggleLensing()
			m.snap.Lensing = m.sim.Lensing()
		case "[":
			m.adjustProbability(-probabilityStep)
		case "]":
			m.adjustProbability(probabilityStep)
		case "r":
			m.sim.Reset()
			m.captures = m.captures[:0]
			m.snap = m.sim.Snapshot()
		case "t":
			m.scene.Trails = !m.scene.Trails
		case "c":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.scene.Camera.RotateX(rotateStep)
		case "X":
			m.scene.Camera.RotateX(-rotateStep)
		case "y":
			m.scene.Camera.RotateY(rotateStep)
		case "Y":
			m.scene.Camera.RotateY(-rotateStep)
		case "z":
			m.scene.Camera.RotateZ(rotateStep)
		case "Z":
			m.scene.Camera.RotateZ(-rotateStep)
		case "+", "=":
			m.scene.Camera.ZoomIn()
		case "-", "_":
			m.scene.Camera.ZoomOut()
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.snap = m.sim.Advance(m.dt)
	m.captures = append(m.captures, float64(m.snap.Stats.Captured))
	if len(m.captures) > historyCapacity {
		m.captures = m.captures[1:]
	}
}

func (m *Model) adjustProbability(delta float64) {
	p := m.sim.Params().RespawnProbability + delta
	p = min(1, max(0, p))
	m.err = m.sim.SetRespawnProbability(p)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.scene.Draw(m.canvas, &m.snap)
	canvasView := canvasStyle().Render(m.canvas.Render())

	params := m.sim.Params()
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(status + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle().Render(label) + valueStyle().Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.snap.Frame))
	row("Time", fmt.Sprintf("%.2f", m.snap.Time))
	row("Speed", fmt.Sprintf("x%.2f", params.Speed))
	row("Lensing", onOff(params.Lensing))
	row("Respawn p", fmt.Sprintf("%.2f", params.RespawnProbability))
	row("Captured", fmt.Sprintf("%d", m.snap.Stats.Captured))

	total := len(m.snap.Particles)
	active := m.snap.Stats.Active
	frac := 0.0
	if total > 0 {
		frac = float64(active) / float64(total)
	}
	s.WriteString(labelStyle().Render("Active") + ProgressBar(frac, 16) + fmt.Sprintf(" %d/%d\n", active, total))

	if len(m.captures) > 1 {
		chart := asciigraph.Plot(m.captures,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("captures / frame"))
		s.WriteString("\n" + graphStyle().Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + warnStyle().Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle().Render("SP:Pause ↑↓:Speed L:Lens [ ]:Respawn\nXYZ:Rotate +-:Zoom R:Reset ?:Help Q:Quit"))
	statsView := statsStyle().Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `
  Space     pause / resume
  Up/Down   simulation speed x1.2 / /1.2
  L         toggle lensing
  [ ]       respawn probability -/+ 0.01
  x y z     rotate camera (shift reverses)
  + -       zoom
  T         toggle trails
  C         cycle color theme
  R         reset particles
  Q         quit
`

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
