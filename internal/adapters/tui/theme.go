package tui

import (
	"reflect"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/domain"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// styles holds the lipgloss styles derived from a theme.
type styles struct {
	work, brk, paused, help lipgloss.Style
	badge                   lipgloss.Style
}

func newStyles(t config.ThemeConfig) styles {
	return styles{
		work:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.ColorWork)),
		brk:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.ColorBreak)),
		paused: lipgloss.NewStyle().Foreground(lipgloss.Color(t.ColorPaused)),
		help:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.ColorHelp)),
		badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(t.ColorPaused)).
			Padding(0, 1),
	}
}

// accent picks the style for the session type.
func (s styles) accent(t domain.SessionType) lipgloss.Style {
	if t == domain.SessionTypeSession {
		return s.work
	}
	return s.brk
}

// timerColor returns the color of the big clock, greyed out while paused.
func timerColor(t config.ThemeConfig, st domain.EngineStatus) lipgloss.Color {
	switch {
	case st.Status == domain.SessionStatusPaused:
		return lipgloss.Color(t.ColorPaused)
	case st.CurrentSession.IsBreak():
		return lipgloss.Color(t.ColorBreak)
	default:
		return lipgloss.Color(t.ColorWork)
	}
}

// progressBar builds a gradient bar matching the session type.
func progressBar(t config.ThemeConfig, st domain.EngineStatus, width int) progress.Model {
	var bar progress.Model
	if st.CurrentSession.IsBreak() {
		bar = progress.New(progress.WithGradient(t.BreakGradientStart, t.BreakGradientEnd), progress.WithoutPercentage())
	} else {
		bar = progress.New(progress.WithGradient(t.WorkGradientStart, t.WorkGradientEnd), progress.WithoutPercentage())
	}
	if width < 10 {
		width = 10
	}
	bar.Width = width
	return bar
}
