package filter

import (
	"strings"

	"github.com/glabrego/alienfeed/internal/news"
)

// Criteria are the inputs of the view pipeline besides the items themselves.
type Criteria struct {
	Mute      []string
	Highlight []string
	Mode      news.Mode
	Query     string
}

// Apply returns the indices of items that survive, in order: mute keywords,
// then the mode filter, then the search query. Items are never modified.
func Apply(items []news.Item, c Criteria) []int {
	mute := normalize(c.Mute)
	highlight := normalize(c.Highlight)
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]int, 0, len(items))
	for i := range items {
		item := &items[i]
		title := strings.ToLower(item.Title)
		if containsAny(title, mute) {
			continue
		}
		if !matchesMode(item, title, c.Mode, highlight) {
			continue
		}
		if query != "" && !matchesQuery(item, title, query) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// IsHighlighted reports whether the title contains any of the keywords.
func IsHighlighted(item news.Item, keywords []string) bool {
	return containsAny(strings.ToLower(item.Title), normalize(keywords))
}

func matchesMode(item *news.Item, lowerTitle string, mode news.Mode, highlight []string) bool {
	switch mode {
	case news.ModeUnseen:
		return item.IsNew
	case news.ModeBookmarks:
		return item.IsBookmarked
	case news.ModeRead:
		return item.IsRead
	case news.ModeHighlights:
		return containsAny(lowerTitle, highlight)
	case news.ModeVideo:
		return news.IsMediaDomain(item.Domain)
	default:
		return true
	}
}

func matchesQuery(item *news.Item, lowerTitle, query string) bool {
	return strings.Contains(lowerTitle, query) ||
		strings.Contains(strings.ToLower(item.Domain), query) ||
		strings.Contains(strings.ToLower(item.Category), query)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func normalize(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}
