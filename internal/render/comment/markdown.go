package comment

import (
	"html"
	"regexp"
	"strings"
)

var (
	reMarkdownLink = regexp.MustCompile(`\[([^\]]*)\]\(((?:[^\s()]|\([^\s()]*\))+)\)`)
	reBold         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	reItalic       = regexp.MustCompile(`\*([^*\s][^*]*)\*`)
	reInlineCode   = regexp.MustCompile("`([^`]+)`")
)

// markdownLines formats the raw reply source: links, emphasis and quotes.
func (r Renderer) markdownLines(body string) []string {
	body = strings.TrimSpace(html.UnescapeString(body))
	if body == "" {
		return nil
	}

	out := make([]string, 0, 8)
	for _, para := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		para = strings.TrimRight(para, " \t")
		if strings.TrimSpace(para) == "" {
			out = append(out, "")
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(para), ">") {
			text := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(para), ">"))
			prefix := r.Styles.Quote.Render("│ ")
			for _, line := range wrap(r.inlineMarkdown(text), r.Width-2) {
				out = append(out, prefix+line)
			}
			continue
		}
		out = append(out, wrap(r.inlineMarkdown(para), r.Width)...)
	}
	return trimBlankLines(out)
}

func (r Renderer) inlineMarkdown(s string) string {
	s = reMarkdownLink.ReplaceAllStringFunc(s, func(m string) string {
		parts := reMarkdownLink.FindStringSubmatch(m)
		return r.link(strings.TrimSpace(parts[1]), parts[2])
	})
	s = reBold.ReplaceAllStringFunc(s, func(m string) string {
		return r.Styles.Strong.Render(reBold.FindStringSubmatch(m)[1])
	})
	s = reItalic.ReplaceAllStringFunc(s, func(m string) string {
		return r.Styles.Emphasis.Render(reItalic.FindStringSubmatch(m)[1])
	})
	s = reInlineCode.ReplaceAllStringFunc(s, func(m string) string {
		return r.Styles.Code.Render(reInlineCode.FindStringSubmatch(m)[1])
	})
	return s
}
