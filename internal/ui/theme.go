package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hotpot-dev/hotpot/internal/screen"
)

// Theme is the set of cell styles the dashboard draws with.
type Theme struct {
	Dark bool

	Title    screen.Style
	Text     screen.Style
	Faint    screen.Style
	Selected screen.Style
	Code     screen.Style
	Match    screen.Style
	Bar      screen.Style
	BarLow   screen.Style
	Badge    screen.Style
	Key      screen.Style
	Error    screen.Style
	Info     screen.Style
	Prompt   screen.Style
	Cursor   screen.Style
}

func DarkTheme() Theme {
	return Theme{
		Dark:     true,
		Title:    screen.Style{Fg: lipgloss.Color("0"), Bg: lipgloss.Color("86"), Bold: true},
		Text:     screen.Style{},
		Faint:    screen.Style{Fg: lipgloss.Color("245")},
		Selected: screen.Style{Fg: lipgloss.Color("86"), Bold: true},
		Code:     screen.Style{Fg: lipgloss.Color("231"), Bold: true},
		Match:    screen.Style{Fg: lipgloss.Color("214"), Underline: true},
		Bar:      screen.Style{Fg: lipgloss.Color("42")},
		BarLow:   screen.Style{Fg: lipgloss.Color("203")},
		Badge:    screen.Style{Fg: lipgloss.Color("42"), Bold: true},
		Key:      screen.Style{Fg: lipgloss.Color("86"), Bold: true},
		Error:    screen.Style{Fg: lipgloss.Color("203"), Bold: true},
		Info:     screen.Style{Fg: lipgloss.Color("42")},
		Prompt:   screen.Style{Fg: lipgloss.Color("214"), Bold: true},
		Cursor:   screen.Style{Reverse: true},
	}
}

func LightTheme() Theme {
	return Theme{
		Dark:     false,
		Title:    screen.Style{Fg: lipgloss.Color("15"), Bg: lipgloss.Color("30"), Bold: true},
		Text:     screen.Style{},
		Faint:    screen.Style{Fg: lipgloss.Color("242")},
		Selected: screen.Style{Fg: lipgloss.Color("30"), Bold: true},
		Code:     screen.Style{Fg: lipgloss.Color("16"), Bold: true},
		Match:    screen.Style{Fg: lipgloss.Color("166"), Underline: true},
		Bar:      screen.Style{Fg: lipgloss.Color("28")},
		BarLow:   screen.Style{Fg: lipgloss.Color("160")},
		Badge:    screen.Style{Fg: lipgloss.Color("28"), Bold: true},
		Key:      screen.Style{Fg: lipgloss.Color("30"), Bold: true},
		Error:    screen.Style{Fg: lipgloss.Color("160"), Bold: true},
		Info:     screen.Style{Fg: lipgloss.Color("28")},
		Prompt:   screen.Style{Fg: lipgloss.Color("166"), Bold: true},
		Cursor:   screen.Style{Reverse: true},
	}
}

// ThemeFor maps the config theme name to a Theme. "auto" asks the terminal.
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	}
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}
