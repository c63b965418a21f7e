package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/glabrego/alienfeed/internal/news"
	tuitheme "github.com/glabrego/alienfeed/internal/tui/theme"
)

type ItemLineParams struct {
	Item        news.Item
	Now         time.Time
	Active      bool
	Highlighted bool
	Width       int
}

// ItemLine renders one list row: age, category, domain, bookmark marker and title.
func ItemLine(p ItemLineParams, th tuitheme.Theme) string {
	marker := "  "
	if p.Active {
		marker = "> "
	}
	age := fmt.Sprintf("%-8s", news.TimeAgo(p.Now, p.Item.Created()))
	category := "[" + p.Item.Category + "]"
	domain := "[" + p.Item.Domain + "]"
	bookmark := ""
	if p.Item.IsBookmarked {
		bookmark = "🔖 "
	}

	prefix := marker + age + " " + category + " " + domain + " " + bookmark
	title := strings.TrimSpace(p.Item.Title)
	if p.Width > 0 {
		avail := p.Width - runewidth.StringWidth(prefix)
		title = runewidth.Truncate(title, max(0, avail), "…")
	}

	if p.Active {
		plain := prefix + title
		return th.Highlight.Render(PadRight(plain, p.Width))
	}
	return marker + age + " " + th.Category.Render(category) + " " + th.Domain.Render(domain) + " " +
		bookmark + th.StyleItemTitle(p.Item, p.Highlighted, title)
}

// PadRight pads s with spaces to width terminal cells.
func PadRight(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
