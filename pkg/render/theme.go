package render

import "github.com/charmbracelet/lipgloss"

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Pass string
	Fail string
	Warn string
	Skip string
	Info string
}

// palette holds ANSI 256 color codes; an empty code leaves the style plain.
type palette struct {
	primary, success, warning, failure, muted string
}

func newTheme(name string, p palette, bold bool, icons ThemeIcons) Theme {
	fg := func(code string) lipgloss.Style {
		if code == "" {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(code))
	}
	return Theme{
		Name:    name,
		Primary: fg(p.primary),
		Success: fg(p.success),
		Warning: fg(p.warning),
		Error:   fg(p.failure),
		Muted:   fg(p.muted),
		Bold:    lipgloss.NewStyle().Bold(bold),
		Icons:   icons,
	}
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"orca":    OrcaTheme,
	"mono":    MonoTheme,
}

// Themes lists the theme names ThemeByName accepts.
var Themes = []string{"default", "orca", "mono"}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return newTheme("default",
		palette{primary: "39", success: "34", warning: "214", failure: "196", muted: "242"},
		true,
		ThemeIcons{Pass: "✓", Fail: "✗", Warn: "⚠", Skip: "↷", Info: "●"})
}

// OrcaTheme returns a muted theme: pale blue, sage, gold.
func OrcaTheme() Theme {
	return newTheme("orca",
		palette{primary: "75", success: "108", warning: "179", failure: "167", muted: "245"},
		true,
		ThemeIcons{Pass: "✓", Fail: "✗", Warn: "!", Skip: "○", Info: "·"})
}

// MonoTheme returns a monochrome theme with ASCII icons, for logs that end
// up in files.
func MonoTheme() Theme {
	return newTheme("mono", palette{}, false,
		ThemeIcons{Pass: "+", Fail: "x", Warn: "!", Skip: "-", Info: "*"})
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	if fn, ok := themes[name]; ok {
		return fn()
	}
	return DefaultTheme()
}
