package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/poelab/internal/catalog"
)

var (
	pickTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	pickSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	pickArrow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	pickActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	pickDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	pickIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	pickKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	pickError  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Launcher builds the live view for a picked scenario.
type Launcher func(e catalog.Entry) (Model, error)

// Picker lists the scenario catalog and hands over to the live view once
// one is chosen.
type Picker struct {
	entries []catalog.Entry
	cursor  int
	launch  Launcher
	live    *Model
	err     error
}

func NewPicker(entries []catalog.Entry, launch Launcher) Picker {
	return Picker{entries: entries, launch: launch}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.live != nil {
		next, cmd := p.live.Update(msg)
		live := next.(Model)
		p.live = &live
		return p, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.entries)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.entries) == 0 {
			return p, nil
		}
		live, err := p.launch(p.entries[p.cursor])
		if err != nil {
			p.err = err
			return p, nil
		}
		p.live, p.err = &live, nil
		return p, live.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	if p.live != nil {
		return p.live.View()
	}
	var b strings.Builder
	b.WriteString("\n\n    " + pickTitle.Render("POELAB") + "\n    " + pickSub.Render("predict, observe, explain") + "\n    " + pickSub.Render("─────────────────────────") + "\n\n")
	if len(p.entries) == 0 {
		b.WriteString("    " + pickIdle.Render("no scenarios found") + "\n")
	}
	for i, e := range p.entries {
		name := fmt.Sprintf("%s %-14s", e.Emoji, e.Slug)
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", pickArrow.Render("▸"), pickActive.Render(name), pickDesc.Render(e.Description)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", pickIdle.Render(name), pickIdle.Render(e.Description)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + pickError.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + pickKey.Render("j/k") + pickSub.Render(" navigate  ") + pickKey.Render("enter") + pickSub.Render(" start  ") + pickKey.Render("q") + pickSub.Render(" quit") + "\n")
	return b.String()
}

// Close tears down the live session, if one was started.
func (p Picker) Close() {
	if p.live != nil {
		p.live.Close()
	}
}

// RunPicker shows the picker until the user quits.
func RunPicker(entries []catalog.Entry, launch Launcher) error {
	final, err := tea.NewProgram(NewPicker(entries, launch), tea.WithAltScreen()).Run()
	if p, ok := final.(Picker); ok {
		p.Close()
	}
	return err
}
