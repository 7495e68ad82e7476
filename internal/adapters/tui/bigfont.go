package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const glyphHeight = 5

// glyphs holds 5-row block renderings of the characters a countdown needs.
// Rows are separated by '|'.
var glyphs = map[rune]string{
	'0': "████|█  █|█  █|█  █|████",
	'1': " █ |██ | █ | █ |███",
	'2': "████|   █|████|█   |████",
	'3': "████|   █|████|   █|████",
	'4': "█  █|█  █|████|   █|   █",
	'5': "████|█   |████|   █|████",
	'6': "████|█   |████|█  █|████",
	'7': "████|   █|  █ | █  | █  ",
	'8': "████|█  █|████|█  █|████",
	'9': "████|█  █|████|   █|████",
	':': " |█| |█| ",
}

// minBigWidth is the narrowest terminal that gets the block clock.
const minBigWidth = 40

// renderBigTime renders an MM:SS string as block glyphs. Narrow terminals
// and unknown characters fall back to the plain string.
func renderBigTime(timeStr string, color lipgloss.Color, width int) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(color)
	if width < minBigWidth {
		return style.Render(timeStr)
	}

	var rows [glyphHeight][]string
	for _, ch := range timeStr {
		g, ok := glyphs[ch]
		if !ok {
			return style.Render(timeStr)
		}
		for i, part := range strings.Split(g, "|") {
			rows[i] = append(rows[i], part)
		}
	}

	lines := make([]string, glyphHeight)
	for i := range rows {
		lines[i] = style.Render(strings.Join(rows[i], " "))
	}
	return strings.Join(lines, "\n")
}
