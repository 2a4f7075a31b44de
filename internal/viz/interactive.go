package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/quanta/internal/config"
	"github.com/san-kum/quanta/internal/metrics"
	"github.com/san-kum/quanta/internal/sim"
)

const defaultPreset = "default"

var presetInfo = map[string]string{
	defaultPreset: "settings as loaded",
	"calm":        "small crowd, weak pull",
	"dense":       "packed small quanta",
	"repulsive":   "quanta push apart",
	"sparse":      "bouncy, long reach",
	"billiards":   "no field, no damping",
}

const (
	stateMenu = iota
	stateSim
)

// App lets the user pick a preset, then hands over to the live Model.
type App struct {
	state   int
	cursor  int
	presets []string
	base    *config.Settings
	opts    []sim.Option
	err     error
	live    Model
	width   int
	height  int
}

// NewApp lists the presets layered over base. opts are passed to every
// simulation the app builds.
func NewApp(base *config.Settings, opts ...sim.Option) *App {
	return &App{
		presets: append([]string{defaultPreset}, config.ListPresets()...),
		base:    base,
		opts:    opts,
		width:   width + statsWidth,
		height:  height,
	}
}

// Settings returns base with the named preset applied on top.
func (a *App) Settings(name string) (*config.Settings, error) {
	s := a.base.Clone()
	if name == defaultPreset {
		return s, nil
	}
	apply, ok := config.Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownPreset, name)
	}
	apply(s)
	return s, nil
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		a.width, a.height = ws.Width, ws.Height
	}
	if a.state == stateSim {
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return a.menuKey(key)
	}
	return a, nil
}

func (a *App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a, a.start(a.presets[a.cursor])
	}
	return a, nil
}

func (a *App) start(name string) tea.Cmd {
	settings, err := a.Settings(name)
	if err != nil {
		a.err = err
		return nil
	}
	s, err := sim.New(settings, a.opts...)
	if err != nil {
		a.err = err
		return nil
	}
	a.err = nil
	a.live = NewModel(s, metrics.DefaultRecorder(historyCapacity))
	a.live.resize(a.width, a.height)
	a.state = stateSim
	return a.live.Init()
}

func (a *App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + headerStyle.Render("QUANTA") + "\n    " + Subtle.Render("2d particle sandbox") + "\n    " + Separator(25) + "\n\n")
	for i, name := range a.presets {
		desc := presetInfo[name]
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", Cursor.Render("▸"), valueStyle.Bold(true).Render(fmt.Sprintf("%-12s", name)), Cursor.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", Subtle.Render(fmt.Sprintf("%-12s", name)), Subtle.Render(desc)))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + StatusRecording.UnsetBlink().Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + KeyHint.Render("j/k") + Subtle.Render(" navigate  ") + KeyHint.Render("enter") + Subtle.Render(" start  ") + KeyHint.Render("q") + Subtle.Render(" quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu and then the live view.
func RunInteractive(base *config.Settings, opts ...sim.Option) error {
	_, err := tea.NewProgram(NewApp(base, opts...), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
