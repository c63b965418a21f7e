// Package comment turns reply bodies into wrapped, styled terminal lines.
package comment

import (
	"html"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	nethtml "golang.org/x/net/html"

	"github.com/glabrego/alienfeed/internal/news"
)

type Styles struct {
	Link     lipgloss.Style
	Strong   lipgloss.Style
	Emphasis lipgloss.Style
	Quote    lipgloss.Style
	Code     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Link:     lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")),
		Strong:   lipgloss.NewStyle().Bold(true),
		Emphasis: lipgloss.NewStyle().Italic(true),
		Quote:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		Code:     lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387")),
	}
}

type Renderer struct {
	Width  int
	Styles Styles
}

func New(width int, styles Styles) Renderer {
	return Renderer{Width: max(1, width), Styles: styles}
}

// Lines renders a reply body. The HTML form is preferred when present; the
// markdown source is the fallback.
func (r Renderer) Lines(body, bodyHTML string) []string {
	if strings.TrimSpace(bodyHTML) != "" {
		if lines := r.htmlLines(bodyHTML); len(lines) > 0 {
			return lines
		}
	}
	return r.markdownLines(body)
}

func (r Renderer) htmlLines(raw string) []string {
	raw = strings.TrimSpace(raw)
	// Listing JSON carries the markup escaped once more.
	if strings.HasPrefix(raw, "&lt;") {
		raw = html.UnescapeString(raw)
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return nil
	}
	body := findBody(doc)
	if body == nil {
		return nil
	}
	return trimBlankLines(r.blocks(children(body), r.Width))
}

func (r Renderer) blocks(nodes []*nethtml.Node, width int) []string {
	width = max(1, width)
	lines := make([]string, 0, len(nodes)*2)
	inline := make([]string, 0, 4)
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flush := func() {
		text := normalize(strings.Join(inline, ""))
		inline = inline[:0]
		if text != "" {
			appendBlock(wrap(text, width))
		}
	}

	for _, node := range nodes {
		if node.Type == nethtml.ElementNode && isBlock(node.Data) {
			flush()
			appendBlock(r.block(node, width))
			continue
		}
		inline = append(inline, r.inline(node))
	}
	flush()
	return trimBlankLines(lines)
}

func (r Renderer) block(node *nethtml.Node, width int) []string {
	switch strings.ToLower(node.Data) {
	case "script", "style":
		return nil
	case "blockquote":
		prefix := r.Styles.Quote.Render("│ ")
		inner := r.blocks(children(node), width-2)
		out := make([]string, 0, len(inner))
		for _, line := range inner {
			if line == "" {
				out = append(out, prefix)
				continue
			}
			out = append(out, prefix+r.Styles.Quote.Render(ansi.Strip(line)))
		}
		return out
	case "ul", "ol":
		return r.list(node, strings.EqualFold(node.Data, "ol"), width)
	case "pre":
		raw := strings.TrimRight(strings.ReplaceAll(textOf(node), "\r\n", "\n"), "\n")
		out := make([]string, 0, 4)
		for _, line := range strings.Split(raw, "\n") {
			out = append(out, "    "+r.Styles.Code.Render(ansi.Truncate(line, max(1, width-4), "…")))
		}
		return out
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return wrap(r.Styles.Strong.Render(normalize(r.inlineChildren(node))), width)
	case "hr":
		return []string{strings.Repeat("─", min(width, 24))}
	case "table":
		return r.table(node, width)
	default:
		if hasBlockChild(node) {
			return r.blocks(children(node), width)
		}
		return wrap(normalize(r.inlineChildren(node)), width)
	}
}

func (r Renderer) list(node *nethtml.Node, ordered bool, width int) []string {
	out := make([]string, 0, 8)
	n := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || !strings.EqualFold(child.Data, "li") {
			continue
		}
		n++
		marker := "• "
		if ordered {
			marker = strconv.Itoa(n) + ". "
		}
		indent := strings.Repeat(" ", len(marker))
		inner := r.blocks(children(child), width-len(marker))
		for i, line := range inner {
			if i == 0 {
				out = append(out, marker+line)
				continue
			}
			out = append(out, indent+line)
		}
	}
	return out
}

func (r Renderer) table(node *nethtml.Node, width int) []string {
	out := make([]string, 0, 4)
	var walk func(*nethtml.Node)
	walk = func(n *nethtml.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != nethtml.ElementNode {
				continue
			}
			if strings.EqualFold(c.Data, "tr") {
				cells := make([]string, 0, 4)
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == nethtml.ElementNode {
						cells = append(cells, normalize(r.inlineChildren(cell)))
					}
				}
				out = append(out, ansi.Truncate(strings.Join(cells, " | "), width, "…"))
				continue
			}
			walk(c)
		}
	}
	walk(node)
	return out
}

func (r Renderer) inlineChildren(node *nethtml.Node) string {
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(r.inline(child))
	}
	return b.String()
}

func (r Renderer) inline(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
	default:
		return ""
	}
	switch strings.ToLower(node.Data) {
	case "script", "style", "img":
		return ""
	case "br":
		return "\n"
	case "a":
		text := normalize(r.inlineChildren(node))
		href := attr(node, "href")
		return r.link(text, href)
	case "strong", "b":
		return r.Styles.Strong.Render(normalize(r.inlineChildren(node)))
	case "em", "i":
		return r.Styles.Emphasis.Render(normalize(r.inlineChildren(node)))
	case "code":
		return r.Styles.Code.Render(r.inlineChildren(node))
	case "sup":
		return "^" + r.inlineChildren(node)
	default:
		return r.inlineChildren(node)
	}
}

// link renders as "text [domain]".
func (r Renderer) link(text, href string) string {
	label := linkLabel(href)
	switch {
	case label == "":
		return text
	case text == "" || text == href:
		return r.Styles.Link.Render("[" + label + "]")
	default:
		return text + " " + r.Styles.Link.Render("["+label+"]")
	}
}

func linkLabel(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "/") {
		return "reddit.com"
	}
	if domain := news.DomainFromURL(href); domain != "" {
		return domain
	}
	return href
}

func wrap(text string, width int) []string {
	if text == "" {
		return nil
	}
	return strings.Split(ansi.Wrap(text, max(1, width), ""), "\n")
}

// normalize collapses whitespace inside each line, keeping explicit breaks.
func normalize(s string) string {
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, "\n")
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(ansi.Strip(lines[start])) == "" {
		start++
	}
	for end > start && strings.TrimSpace(ansi.Strip(lines[end-1])) == "" {
		end--
	}
	if start == end {
		return nil
	}
	out := make([]string, 0, end-start)
	prevBlank := false
	for _, line := range lines[start:end] {
		blank := line == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, line)
		prevBlank = blank
	}
	return out
}

func isBlock(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "div", "blockquote", "ul", "ol", "li", "pre", "table", "hr",
		"h1", "h2", "h3", "h4", "h5", "h6", "script", "style":
		return true
	}
	return false
}

func hasBlockChild(node *nethtml.Node) bool {
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == nethtml.ElementNode && isBlock(c.Data) {
			return true
		}
	}
	return false
}

func findBody(node *nethtml.Node) *nethtml.Node {
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

func children(node *nethtml.Node) []*nethtml.Node {
	out := make([]*nethtml.Node, 0, 4)
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == nethtml.TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func attr(node *nethtml.Node, name string) string {
	for _, a := range node.Attr {
		if strings.EqualFold(a.Key, name) {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func textOf(node *nethtml.Node) string {
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}
