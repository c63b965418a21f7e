package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/alienfeed/internal/comments"
	"github.com/glabrego/alienfeed/internal/render/comment"
	"github.com/glabrego/alienfeed/internal/tui/actions"
	tuistate "github.com/glabrego/alienfeed/internal/tui/state"
	"github.com/glabrego/alienfeed/internal/tui/view"
)

func (m Model) updateComments(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.thread = nil
		m.commentsLoading = false
		m.links = nil
		m.screen = ScreenList
		return m, nil
	}
	if m.thread == nil || m.commentsLoading {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.thread.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.thread.Move(1)
	case msg.String() == "pgup":
		m.thread.Move(-tuistate.PageStep(m.commentRows() / 3))
	case msg.String() == "pgdown":
		m.thread.Move(tuistate.PageStep(m.commentRows() / 3))
	case key.Matches(msg, m.keys.Left):
		m.thread.PrevTopLevel()
	case key.Matches(msg, m.keys.Right):
		m.thread.NextTopLevel()
	case key.Matches(msg, m.keys.Enter):
		m.thread.ToggleSelected()
	case key.Matches(msg, m.keys.Links):
		node := m.thread.SelectedNode()
		if node == nil {
			return m, nil
		}
		links := comments.ExtractLinks(node.Body)
		if len(links) == 0 {
			cmd := m.setStatus("No links in this comment")
			return m, cmd
		}
		m.links = links
		m.linkCursor = 0
		m.screen = ScreenLinkPopup
		return m, nil
	}
	m.revealComment()
	return m, nil
}

func (m Model) updateLinkPopup(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.linkCursor = tuistate.ClampCursor(m.linkCursor-1, len(m.links))
	case key.Matches(msg, m.keys.Down):
		m.linkCursor = tuistate.ClampCursor(m.linkCursor+1, len(m.links))
	case key.Matches(msg, m.keys.Enter):
		if len(m.links) == 0 {
			return m, nil
		}
		cmd := m.openURL(m.links[m.linkCursor].URL)
		return m, cmd
	case key.Matches(msg, m.keys.Copy):
		if len(m.links) == 0 {
			return m, nil
		}
		return m, actions.CopyURLCmd(m.links[m.linkCursor].URL, m.copyURLFn)
	case key.Matches(msg, m.keys.Back):
		m.links = nil
		m.screen = ScreenComments
	}
	return m, nil
}

// commentRows is the number of text rows inside the comments popup.
func (m Model) commentRows() int {
	_, h := m.popupSize()
	return max(1, h-2)
}

func (m Model) popupSize() (int, int) {
	w, h := m.screenSize()
	return max(20, w*9/10), max(5, h*9/10)
}

func (m Model) screenSize() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return w, h
}

// commentLayout renders every visible node and reports the line span of each.
func (m Model) commentLayout(inner int) ([]string, [][2]int) {
	nodes := m.thread.Visible()
	lines := make([]string, 0, len(nodes)*4)
	spans := make([][2]int, 0, len(nodes))
	styles := comment.Styles{
		Link:     m.theme.Link,
		Strong:   lipgloss.NewStyle().Bold(true),
		Emphasis: lipgloss.NewStyle().Italic(true),
		Quote:    m.theme.Quote,
		Code:     m.theme.Key,
	}
	for i, node := range nodes {
		start := len(lines)
		indent := strings.Repeat("  ", node.Depth)
		header := indent + commentIndicator(node) + fmt.Sprintf("%s (%d):", node.Author, node.Score)
		if node.Collapsed {
			header += fmt.Sprintf(" %d hidden", node.Descendants())
		}
		if i == m.thread.Selected {
			header = m.theme.Highlight.Render(view.PadRight(header, inner))
		} else {
			header = m.theme.Author.Render(header)
		}
		lines = append(lines, header)

		body := comment.New(inner-len(indent)-2, styles).Lines(node.Body, node.BodyHTML)
		for _, line := range body {
			lines = append(lines, indent+"  "+line)
		}
		lines = append(lines, "")
		spans = append(spans, [2]int{start, len(lines)})
	}
	return lines, spans
}

func commentIndicator(node *comments.Node) string {
	if !node.HasChildren() {
		return ""
	}
	if node.Collapsed {
		return "[+] "
	}
	return "[-] "
}

// revealComment scrolls the popup so the selected comment is on screen.
func (m *Model) revealComment() {
	if m.thread == nil || m.thread.Len() == 0 {
		return
	}
	w, _ := m.popupSize()
	lines, spans := m.commentLayout(w - 2)
	span := spans[m.thread.Selected]
	m.thread.Top = tuistate.Reveal(m.thread.Top, span[0], span[1], m.commentRows(), len(lines))
}

func (m Model) commentsPopup() string {
	w, _ := m.popupSize()
	inner := w - 2
	rows := m.commentRows()
	title := "Comments"
	if item := m.current(); item != nil {
		title = "Comments: " + item.Title
	}

	var lines []string
	switch {
	case m.thread == nil:
		lines = []string{comments.StatusEmpty}
	case m.commentsLoading:
		lines = []string{m.spinner.View() + " " + comments.StatusLoading}
	case m.thread.Len() == 0:
		status := m.thread.Status
		if status == "" {
			status = comments.StatusEmpty
		}
		lines = []string{status}
	default:
		all, _ := m.commentLayout(inner)
		top := min(m.thread.Top, max(0, len(all)-1))
		lines = all[top:min(len(all), top+rows)]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return view.Box(title, lines, w, m.theme)
}

func (m Model) linkPopup() string {
	w, h := m.screenSize()
	width := min(w-4, 72)
	inner := width - 2
	start, end := tuistate.CenteredWindow(len(m.links), m.linkCursor, max(1, h-8))
	lines := make([]string, 0, end-start+2)
	for i := start; i < end; i++ {
		l := m.links[i]
		label := l.URL
		if l.Text != "" && l.Text != l.URL {
			label = l.Text + " - " + l.URL
		}
		if i == m.linkCursor {
			lines = append(lines, m.theme.Highlight.Render(view.PadRight("> "+label, inner)))
			continue
		}
		lines = append(lines, "  "+label)
	}
	lines = append(lines, "", m.theme.Dim.Render("enter: open  y: copy  esc: back"))
	return view.Box("Links", lines, width, m.theme)
}
