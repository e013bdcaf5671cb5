package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Scene   lipgloss.Color
}

var (
	ThemeChalkboard = Theme{
		Name:    "chalkboard",
		Primary: lipgloss.Color("#7fdbca"),
		Accent:  lipgloss.Color("#ffcb6b"),
		Text:    lipgloss.Color("#eeeeee"),
		Muted:   lipgloss.Color("#777777"),
		Success: lipgloss.Color("#c3e88d"),
		Warning: lipgloss.Color("#ffcb6b"),
		Error:   lipgloss.Color("#f07178"),
		Scene:   lipgloss.Color("#ffffff"),
	}

	ThemeBlueprint = Theme{
		Name:    "blueprint",
		Primary: lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
		Scene:   lipgloss.Color("#9fd3ff"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff0000"),
		Scene:   lipgloss.Color("#cccccc"),
	}

	Themes = []Theme{ThemeChalkboard, ThemeBlueprint, ThemeMinimal}
)

// GetTheme returns a theme by name, or the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after t, wrapping around.
func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

type styles struct {
	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	running  lipgloss.Style
	paused   lipgloss.Style
	good     lipgloss.Style
	bad      lipgloss.Style
	scene    lipgloss.Style
	graph    lipgloss.Style
	panel    lipgloss.Style
	section  lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(14),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		muted:    lipgloss.NewStyle().Foreground(t.Muted),
		selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		running:  lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		paused:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		good:     lipgloss.NewStyle().Foreground(t.Success),
		bad:      lipgloss.NewStyle().Foreground(t.Error),
		scene:    lipgloss.NewStyle().Foreground(t.Scene).Padding(0, 1),
		graph:    lipgloss.NewStyle().Foreground(t.Primary),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(0, 2).
			Width(52),
		section: lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginTop(1),
	}
}
