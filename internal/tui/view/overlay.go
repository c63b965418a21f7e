package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Overlay composes a popup centered over a base frame. The base is stripped of
// its own styling and repainted with dim so it reads as inactive context.
func Overlay(base, popup string, width, height int, dim lipgloss.Style) string {
	baseLines := strings.Split(base, "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}
	if height > 0 && len(baseLines) > height {
		baseLines = baseLines[:height]
	}

	popLines := strings.Split(popup, "\n")
	popW := 0
	for _, line := range popLines {
		popW = max(popW, ansi.StringWidth(line))
	}
	popW = min(popW, width)
	popH := min(len(popLines), len(baseLines))
	x := max(0, (width-popW)/2)
	y := max(0, (len(baseLines)-popH)/2)

	out := make([]string, len(baseLines))
	for i, line := range baseLines {
		plain := runewidth.FillRight(runewidth.Truncate(ansi.Strip(line), width, ""), width)
		if i < y || i >= y+popH || popW == 0 {
			out[i] = dim.Render(plain)
			continue
		}
		fg := ansi.Truncate(popLines[i-y], popW, "")
		fg = PadRight(fg, popW)
		left := cutCells(plain, 0, x)
		right := cutCells(plain, x+popW, width)
		out[i] = dim.Render(left) + fg + dim.Render(right)
	}
	return strings.Join(out, "\n")
}

// cutCells returns the cells [from, to) of plain text, padding wide runes that
// straddle a boundary with spaces.
func cutCells(s string, from, to int) string {
	if to <= from {
		return ""
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if col >= to {
			break
		}
		w := runewidth.RuneWidth(r)
		end := col + w
		switch {
		case end <= from:
		case col >= from && end <= to:
			b.WriteRune(r)
		default:
			overlap := min(end, to) - max(col, from)
			b.WriteString(strings.Repeat(" ", max(0, overlap)))
		}
		col = end
	}
	got := runewidth.StringWidth(b.String())
	if got < to-from {
		b.WriteString(strings.Repeat(" ", to-from-got))
	}
	return b.String()
}
