package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	tuitheme "github.com/glabrego/alienfeed/internal/tui/theme"
)

// Box draws a titled popup frame around lines. Width includes the border.
func Box(title string, lines []string, width int, th tuitheme.Theme) string {
	width = max(width, 8)
	inner := width - 2
	border := lipgloss.NewStyle().Foreground(th.PopupBorder).Background(th.Popup.GetBackground())

	top := strings.Repeat("─", inner)
	if title != "" {
		label := " " + ansi.Truncate(title, max(0, inner-2), "…") + " "
		left := (inner - ansi.StringWidth(label)) / 2
		right := inner - ansi.StringWidth(label) - left
		top = strings.Repeat("─", left) + label + strings.Repeat("─", right)
	}

	out := make([]string, 0, len(lines)+2)
	out = append(out, border.Render("┌"+top+"┐"))
	for _, line := range lines {
		line = ansi.Truncate(line, inner, "…")
		out = append(out, border.Render("│")+th.Popup.Render(PadRight(line, inner))+border.Render("│"))
	}
	out = append(out, border.Render("└"+strings.Repeat("─", inner)+"┘"))
	return strings.Join(out, "\n")
}

// Rule is a separator line for menus inside a box.
func Rule(width int) string {
	return strings.Repeat("─", max(0, width))
}

// Center pads s on both sides to width cells.
func Center(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
