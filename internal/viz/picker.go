package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/decsim/decsim/internal/config"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Picker is the scenario menu shown when the CLI starts without a
// subcommand. Selecting an entry hands the session to the live view;
// esc returns to the menu.
type Picker struct {
	names         []string
	cursor        int
	fps           int
	stepsPerFrame int
	live          *Model
	err           error
}

func NewPicker(fps, stepsPerFrame int) Picker {
	return Picker{
		names:         config.ListPresets(),
		fps:           fps,
		stepsPerFrame: stepsPerFrame,
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			p.live = nil
			return p, nil
		}
		updated, cmd := p.live.Update(msg)
		live := updated.(Model)
		p.live = &live
		return p, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.names)-1 {
				p.cursor++
			}
		case "enter":
			scn := config.GetPreset(p.names[p.cursor])
			live, err := NewModel(scn, p.fps, p.stepsPerFrame)
			if err != nil {
				p.err = err
				return p, nil
			}
			p.live = &live
			return p, live.Init()
		}
	}
	return p, nil
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View() + "\n" + helpStyle.Render("esc:menu")
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("DECSIM") + "\n")
	s.WriteString(dimStyle.Render("pick a scenario to watch") + "\n\n")

	for i, name := range p.names {
		scn := config.GetPreset(name)
		line := fmt.Sprintf("%-16s %s", name, scn.Description)
		if i == p.cursor {
			s.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString(dimStyle.Render("  "+line) + "\n")
		}
	}

	if p.err != nil {
		s.WriteString("\n" + errorStyle.Render(p.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\nenter:watch  j/k:move  q:quit"))
	return s.String()
}
