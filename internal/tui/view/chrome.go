package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	tuitheme "github.com/glabrego/alienfeed/internal/tui/theme"
)

const AppTitle = "👽 Alien News Feed"

type HeaderParams struct {
	Profile string
	Mode    string
	Query   string
	Clock   string
	Width   int
}

func Header(p HeaderParams, th tuitheme.Theme) string {
	title := AppTitle
	if p.Profile != "" {
		title += " [" + p.Profile + "]"
	}
	if p.Mode != "" && p.Mode != "All" {
		title += " [" + p.Mode + "]"
	}
	if p.Query != "" {
		title += " [Search: " + p.Query + "]"
	}
	return th.Bar.Render(spread(title, p.Clock, p.Width))
}

type FooterParams struct {
	Hint         string
	Status       string
	LastChecked  string
	ConnectionOK bool
	Shown        int
	Total        int
	Width        int
}

func Footer(p FooterParams, th tuitheme.Theme) string {
	left := p.Hint
	if p.Status != "" {
		left = p.Status
	}
	conn := "online"
	if !p.ConnectionOK {
		conn = "offline"
	}
	checked := p.LastChecked
	if checked == "" {
		checked = "never"
	}
	right := fmt.Sprintf("%s | %d/%d | Last checked: %s", conn, p.Shown, p.Total, checked)
	return th.Bar.Render(spread(left, right, p.Width))
}

// spread pads between left and right to fill width, truncating left first.
func spread(left, right string, width int) string {
	if width <= 0 {
		if right == "" {
			return left
		}
		return left + " " + right
	}
	rw := ansi.StringWidth(right)
	if rw >= width {
		return ansi.Truncate(right, width, "")
	}
	avail := width - rw
	if right != "" {
		avail--
	}
	left = ansi.Truncate(left, max(0, avail), "…")
	gap := width - ansi.StringWidth(left) - rw
	return left + strings.Repeat(" ", max(0, gap)) + right
}
