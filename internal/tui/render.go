package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/glabrego/alienfeed/internal/filter"
	"github.com/glabrego/alienfeed/internal/news"
	"github.com/glabrego/alienfeed/internal/tui/menu"
	"github.com/glabrego/alienfeed/internal/tui/view"
)

const listHint = "enter: actions  c: comments  b: bookmark  /: search  f: filter  s: settings  h: help  esc: quit"

// View paints the list frame and, for modal screens, the popups stacked on
// top of it. The previous frame is reused until a handler asks for a repaint.
func (m Model) View() string {
	if m.redraw != nil && !m.redraw.needed && m.redraw.frame != "" {
		return m.redraw.frame
	}
	frame := m.base()
	w, h := m.screenSize()
	for _, popup := range m.overlays() {
		frame = view.Overlay(frame, popup, w, h, m.theme.Dim)
	}
	if m.redraw != nil {
		m.redraw.frame = frame
		m.redraw.needed = false
		m.redraw.paints++
	}
	return frame
}

// overlays lists the popups for the active screen, bottom first.
func (m Model) overlays() []string {
	switch m.screen {
	case ScreenComments:
		return []string{m.commentsPopup()}
	case ScreenLinkPopup:
		return []string{m.commentsPopup(), m.linkPopup()}
	case ScreenActionMenu:
		return []string{menuPopup(m, m.actionMenu, 56)}
	case ScreenFilterMenu:
		return []string{menuPopup(m, m.filterMenu, 30)}
	case ScreenSettings:
		return []string{m.settingsPopup()}
	case ScreenImport:
		return []string{m.settingsPopup(), m.importPopup()}
	case ScreenProfileManager:
		return []string{m.profilesPopup()}
	case ScreenDeleteConfirm:
		return []string{m.confirmPopup("Delete Article", m.deleteLabel(), "y: delete  any other key: cancel")}
	case ScreenExitConfirm:
		return []string{m.confirmPopup("Quit", "Quit Alien News Feed?", "y: quit  any other key: cancel")}
	case ScreenHelp:
		return []string{m.helpPopup()}
	}
	return nil
}

func (m Model) base() string {
	w, h := m.screenSize()
	p := m.cfg.Active()
	header := view.Header(view.HeaderParams{
		Profile: p.Name,
		Mode:    m.mode.String(),
		Query:   m.query,
		Clock:   m.clock,
		Width:   w,
	}, m.theme)

	rows := m.listHeight()
	lines := make([]string, 0, h)
	lines = append(lines, header)
	if len(m.view) == 0 {
		empty := "No articles."
		if m.query != "" || m.mode != news.ModeAll {
			empty = "No articles match the current filter."
		}
		lines = append(lines, "", view.Center(m.theme.Dim.Render(empty), w))
	} else {
		now := m.nowFn()
		end := min(len(m.view), m.top+rows)
		for pos := m.top; pos < end; pos++ {
			item := m.items[m.view[pos]]
			lines = append(lines, view.ItemLine(view.ItemLineParams{
				Item:        item,
				Now:         now,
				Active:      pos == m.cursor,
				Highlighted: filter.IsHighlighted(item, p.HighlightKeywords),
				Width:       w,
			}, m.theme))
		}
	}
	for len(lines) < h-1 {
		lines = append(lines, "")
	}

	hint := listHint
	if m.screen == ScreenSearchInput {
		hint = "Search: " + m.query + "_"
	}
	lastChecked := ""
	if !m.lastChecked.IsZero() {
		lastChecked = m.lastChecked.Format("15:04:05")
	}
	lines = append(lines, view.Footer(view.FooterParams{
		Hint:         hint,
		Status:       m.footerStatus(),
		LastChecked:  lastChecked,
		ConnectionOK: m.connectionOK,
		Shown:        len(m.view),
		Total:        len(m.items),
		Width:        w,
	}, m.theme))
	return strings.Join(lines, "\n")
}

func (m Model) footerStatus() string {
	if m.screen == ScreenSearchInput {
		return ""
	}
	if m.status != "" {
		return m.status
	}
	if !m.connectionOK && m.lastError != "" {
		return "Fetch failed: " + m.lastError
	}
	return ""
}

func menuPopup[A comparable](m Model, mn *menu.Menu[A], width int) string {
	if mn == nil {
		return ""
	}
	w, _ := m.screenSize()
	width = min(width, w-4)
	inner := width - 2
	lines := make([]string, 0, len(mn.Items)+2)
	for i, it := range mn.Items {
		switch {
		case it.Kind == menu.KindSeparator:
			lines = append(lines, m.theme.Separator.Render(view.Rule(inner)))
		case i == mn.Cursor:
			lines = append(lines, m.theme.Highlight.Render(view.PadRight("> "+it.Label, inner)))
		case !it.Selectable():
			lines = append(lines, m.theme.Disabled.Render("  "+it.Label))
		default:
			lines = append(lines, "  "+it.Label)
		}
	}
	lines = append(lines, "", m.theme.Dim.Render("enter: select  esc: close"))
	return view.Box(mn.Title, lines, width, m.theme)
}

func (m Model) deleteLabel() string {
	if item := m.current(); item != nil {
		return ansi.Truncate(item.Title, 44, "…")
	}
	return ""
}

func (m Model) confirmPopup(title, question, hint string) string {
	width := 50
	lines := []string{
		"",
		view.Center(question, width-2),
		"",
		view.Center(m.theme.Dim.Render(hint), width-2),
	}
	return view.Box(title, lines, width, m.theme)
}

func (m Model) helpPopup() string {
	w, _ := m.screenSize()
	width := min(w-4, 64)
	lines := []string{m.theme.Section.Render("Article list")}
	for _, b := range m.keys.listHelp() {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("  %s %s", m.theme.Key.Render(fmt.Sprintf("%-10s", h.Key)), h.Desc))
	}
	lines = append(lines, "", m.theme.Section.Render("Comments"))
	for _, b := range m.keys.commentsHelp() {
		h := b.Help()
		lines = append(lines, fmt.Sprintf("  %s %s", m.theme.Key.Render(fmt.Sprintf("%-10s", h.Key)), h.Desc))
	}
	lines = append(lines, "", m.theme.Dim.Render("press any key to close"))
	return view.Box("Help", lines, width, m.theme)
}
