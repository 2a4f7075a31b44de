package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/quanta/internal/metrics"
	"github.com/san-kum/quanta/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 50
	historyCapacity = 600
	recordingPath   = "quanta.gif"

	frameDt = time.Second / 60
	// maxFrameTime caps dt after a stall so one tick cannot advance the
	// world by seconds.
	maxFrameTime = 100 * time.Millisecond
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameDt, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a Simulation from bubbletea ticks and renders it onto a
// braille canvas next to a stats panel.
type Model struct {
	sim       *sim.Simulation
	rec       *metrics.Recorder
	cmds      *sim.CommandQueue
	canvas    *Canvas
	surface   *Surface
	lastTick  time.Time
	pointer   mgl64.Vec2
	width     int
	height    int
	running   bool
	showHelp  bool
	recording *Recording
	notice    string
}

// NewModel wraps s. The model feeds every frame to rec itself, so rec
// should not also be registered as an observer of s.
func NewModel(s *sim.Simulation, rec *metrics.Recorder) Model {
	if rec == nil {
		rec = metrics.DefaultRecorder(historyCapacity)
	}
	canvas := NewCanvas(width, height)
	min, max := s.World().Bounds()
	return Model{
		sim:     s,
		rec:     rec,
		cmds:    &sim.CommandQueue{},
		canvas:  canvas,
		surface: NewSurface(canvas, min, max),
		width:   width + statsWidth,
		height:  height,
		running: true,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		// canvasStyle pads two columns and one row.
		m.pointer = m.surface.Unproject(msg.X-2, msg.Y-1)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		now := time.Time(msg)
		dt := frameDelta(m.lastTick, now)
		m.lastTick = now
		if m.running {
			m.step(dt)
		}
		m.draw()
		if m.recording != nil {
			m.recording.Capture(m.canvas)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		if m.recording != nil {
			m.stopRecording()
		}
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "n":
		if !m.running {
			m.step(frameDt)
			m.draw()
		}
	case "t":
		m.cmds.Raise(sim.SpawnTriplet)
	case "b":
		m.cmds.Raise(sim.SpawnBatch)
	case "h":
		m.cmds.Raise(sim.SpawnHex)
	case "r":
		m.cmds.Raise(sim.Reset)
		m.rec.Reset()
	case "c":
		NextTheme()
	case "g":
		m.surface.ShowGrid = !m.surface.ShowGrid
	case "G":
		if m.recording != nil {
			m.stopRecording()
		} else {
			m.recording = &Recording{}
			m.notice = "recording"
		}
	case "?":
		m.showHelp = !m.showHelp
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.cmds.Push(sim.Command{Kind: sim.SpawnCustom, Minors: int(key[0] - '0')})
		}
	}
	return m, nil
}

func (m *Model) stopRecording() {
	if err := m.recording.Save(recordingPath); err != nil {
		m.notice = err.Error()
	} else {
		m.notice = "saved " + recordingPath
	}
	m.recording = nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-statsWidth-4, 10)
	rows := max(h-2, 5)
	grid := m.surface.ShowGrid
	m.canvas = NewCanvas(cols, rows)
	m.surface = NewSurface(m.canvas, m.surface.Min, m.surface.Max)
	m.surface.ShowGrid = grid
}

// frameDelta is the wall time between two ticks, capped at maxFrameTime.
// The first tick, or one that does not move forward, counts as frameDt.
func frameDelta(prev, now time.Time) time.Duration {
	if prev.IsZero() || now.IsZero() {
		return frameDt
	}
	dt := now.Sub(prev)
	if dt <= 0 {
		return frameDt
	}
	return min(dt, maxFrameTime)
}

// step advances the simulation by dt, draining any queued commands.
func (m *Model) step(dt time.Duration) metrics.FrameStats {
	stats := m.sim.Update(sim.FrameInput{Dt: dt, Pointer: m.pointer, Commands: m.cmds})
	m.rec.Observe(stats)
	return stats
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.surface.Min, m.surface.Max = m.sim.World().Bounds()
	m.sim.Draw(m.surface)
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render())
	stats := m.rec.Last()

	var s strings.Builder
	s.WriteString(headerStyle.Render("QUANTA") + "\n")
	status := StatusRunning.Render(AnimatedSpinner(stats.Frame) + " RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording != nil {
		status += "  " + StatusRecording.Render(fmt.Sprintf("● REC %d", m.recording.Len()))
	}
	s.WriteString(status + "\n")
	if m.notice != "" {
		s.WriteString(Subtle.Render(m.notice) + "\n")
	}

	if pop := m.rec.Series(metrics.SeriesPopulation); len(pop) > 1 {
		chart := asciigraph.Plot(pop, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Population"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if energy := m.rec.Series(metrics.SeriesEnergy); len(energy) > 1 {
		chart := asciigraph.Plot(energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", stats.Frame))
	row("Time", fmt.Sprintf("%.2fs", stats.Time.Seconds()))
	fill := 1.0
	if stats.Floor > 0 {
		fill = float64(stats.Population) / float64(stats.Floor)
	}
	row("Population", fmt.Sprintf("%d / %d ", stats.Population, stats.Floor)+ProgressBar(fill, 10))
	row("Joints", fmt.Sprintf("%d", stats.Joints))
	row("Contacts", SparklineChart(m.rec.Series(metrics.SeriesContacts), 20))
	row("Energy", fmt.Sprintf("%.1f", stats.KineticEnergy))
	row("Gravity", fmt.Sprintf("%d passes", m.sim.Field().Passes()))
	row("Pointer", fmt.Sprintf("%.0f, %.0f", m.pointer.X(), m.pointer.Y()))
	row("Seed", fmt.Sprintf("%d", m.sim.Seed()))
	row("Theme", CurrentTheme.Name)

	values := m.rec.Values()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	s.WriteString("\n" + Separator(statsWidth-6) + "\n")
	for _, name := range names {
		s.WriteString(labelStyle.Width(18).Render(name) + valueStyle.Render(fmt.Sprintf("%.3f", values[name])) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause N:Step R:Reset Q:Quit\nT:Triplet H:Hex B:Batch 1-9:N-gon\nC:Theme G:Grid ⇧G:Record ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay() + "\n\n" + mainView
	}
	return mainView
}

func helpOverlay() string {
	keys := [][2]string{
		{"Space", "Pause/Resume simulation"},
		{"N", "Step one frame while paused"},
		{"T", "Spawn a triplet"},
		{"H", "Spawn a hexagon"},
		{"B", "Spawn a batch of n-gons"},
		{"1-9", "Spawn an n-gon with that many minors"},
		{"R", "Clear the world"},
		{"C", "Cycle themes"},
		{"G", "Toggle the background grid"},
		{"Shift+G", "Toggle GIF recording"},
		{"Q", "Quit"},
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("KEYBOARD SHORTCUTS") + "\n")
	for _, k := range keys {
		b.WriteString(KeyHint.Render(fmt.Sprintf("  %-8s", k[0])) + Subtle.Render(k[1]) + "\n")
	}
	return b.String()
}

// Run starts the live view on s until the user quits.
func Run(s *sim.Simulation, rec *metrics.Recorder) error {
	_, err := tea.NewProgram(NewModel(s, rec), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
