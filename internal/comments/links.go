package comments

import (
	"regexp"
	"strings"
)

var (
	// One balanced pair of parentheses may appear inside the target.
	reMarkdownLink = regexp.MustCompile(`\[([^\]]*)\]\((https?://(?:[^\s()]|\([^\s()]*\))+)\)`)
	reBareURL      = regexp.MustCompile(`https?://[^\s)\]>"']+`)
)

type Link struct {
	Text string
	URL  string
}

// ExtractLinks returns markdown links first, then bare URLs not already listed.
func ExtractLinks(body string) []Link {
	out := make([]Link, 0, 4)
	seen := make(map[string]struct{})

	for _, m := range reMarkdownLink.FindAllStringSubmatch(body, -1) {
		u := m[2]
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		text := strings.TrimSpace(m[1])
		if text == "" {
			text = u
		}
		out = append(out, Link{Text: text, URL: u})
	}

	rest := reMarkdownLink.ReplaceAllString(body, " ")
	for _, u := range reBareURL.FindAllString(rest, -1) {
		u = strings.TrimRight(u, ".,;:!?")
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, Link{Text: u, URL: u})
	}
	return out
}
