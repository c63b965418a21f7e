package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/alienfeed/internal/comments"
	"github.com/glabrego/alienfeed/internal/news"
	"github.com/glabrego/alienfeed/internal/tui/actions"
	"github.com/glabrego/alienfeed/internal/tui/menu"
	tuistate "github.com/glabrego/alienfeed/internal/tui/state"
)

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-tuistate.PageStep(m.listHeight()))
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(tuistate.PageStep(m.listHeight()))
	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-len(m.view))
	case key.Matches(msg, m.keys.End):
		m.moveCursor(len(m.view))
	case key.Matches(msg, m.keys.Enter):
		item := m.current()
		if item == nil {
			return m, nil
		}
		if !item.IsRead || item.IsNew {
			if !m.updateFlags(item, news.FlagUpdate{IsRead: news.Bool(true), IsNew: news.Bool(false)}) {
				return m, nil
			}
		}
		m.actionMenu = m.buildActionMenu(*item)
		m.screen = ScreenActionMenu
	case key.Matches(msg, m.keys.Bookmark):
		cmd := m.toggleBookmark()
		return m, cmd
	case key.Matches(msg, m.keys.Comments):
		return m.openComments()
	case key.Matches(msg, m.keys.Media):
		item := m.current()
		if item == nil {
			return m, nil
		}
		if !news.IsMediaDomain(item.Domain) {
			cmd := m.setStatus("Not a media link")
			return m, cmd
		}
		return m, actions.PlayMediaCmd(m.cfg.General.MediaPlayer, item.URL, m.playMediaFn)
	case key.Matches(msg, m.keys.BookmarksMode):
		if m.mode == news.ModeBookmarks {
			m.setMode(news.ModeAll)
		} else {
			m.setMode(news.ModeBookmarks)
		}
	case key.Matches(msg, m.keys.Search):
		m.screen = ScreenSearchInput
	case key.Matches(msg, m.keys.Filter):
		m.filterMenu = m.buildFilterMenu()
		m.screen = ScreenFilterMenu
	case key.Matches(msg, m.keys.Settings):
		m.settings = newSettingsForm(m.cfg)
		m.screen = ScreenSettings
	case key.Matches(msg, m.keys.Profiles):
		m.profiles = newProfileManager(m.cfg)
		m.screen = ScreenProfileManager
	case key.Matches(msg, m.keys.Help):
		m.screen = ScreenHelp
	case key.Matches(msg, m.keys.Delete):
		if m.current() == nil {
			return m, nil
		}
		m.prev = ScreenList
		m.screen = ScreenDeleteConfirm
	case key.Matches(msg, m.keys.Back):
		// Two-stage exit: drop the search, then the mode, then ask.
		switch {
		case m.query != "":
			m.query = ""
			m.regenerate = true
		case m.mode != news.ModeAll:
			m.setMode(news.ModeAll)
		default:
			m.prev = ScreenList
			m.screen = ScreenExitConfirm
		}
	}
	return m, nil
}

// moveCursor moves the selection within the filtered view and marks the newly
// selected article as seen. The view itself is never rebuilt here.
func (m *Model) moveCursor(delta int) {
	if len(m.view) == 0 {
		return
	}
	next := tuistate.ClampCursor(m.cursor+delta, len(m.view))
	if next == m.cursor {
		return
	}
	m.cursor = next
	m.ensureCursorVisible()
	m.markSeen()
}

// markSeen clears is_new on the selected article. It writes at most once per
// article since a cleared flag is never written again.
func (m *Model) markSeen() {
	item := m.current()
	if item == nil || !item.IsNew {
		return
	}
	m.updateFlags(item, news.FlagUpdate{IsNew: news.Bool(false)})
}

func (m *Model) setMode(mode news.Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	m.regenerate = true
}

func (m *Model) toggleBookmark() tea.Cmd {
	item := m.current()
	if item == nil {
		return nil
	}
	next := !item.IsBookmarked
	if !m.updateFlags(item, news.FlagUpdate{IsBookmarked: news.Bool(next)}) {
		return nil
	}
	m.regenerate = true
	if next {
		return m.setStatus("Bookmarked")
	}
	return m.setStatus("Bookmark removed")
}

func (m *Model) deleteCurrent() tea.Cmd {
	item := m.current()
	if item == nil {
		return nil
	}
	if m.service != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.service.Delete(ctx, item.URL); err != nil {
			m.fail(err)
			return nil
		}
	}
	idx := m.view[m.cursor]
	m.items = append(m.items[:idx:idx], m.items[idx+1:]...)
	// The anchor is gone, so keep the same row position.
	m.view = nil
	m.regenerate = true
	return m.setStatus("Article deleted")
}

func (m Model) openComments() (Model, tea.Cmd) {
	item := m.current()
	if item == nil {
		return m, nil
	}
	m.thread = comments.Loading(item.DetailLink)
	m.commentsLoading = true
	m.links = nil
	m.screen = ScreenComments
	if m.service == nil {
		m.thread = comments.NewThread(item.DetailLink, nil, comments.StatusNoComments)
		m.commentsLoading = false
		return m, nil
	}
	return m, tea.Batch(actions.LoadCommentsCmd(m.service, item.DetailLink), m.spinner.Tick)
}

func (m Model) buildFilterMenu() *menu.Menu[news.Mode] {
	items := make([]menu.Item[news.Mode], 0, len(news.Modes))
	for _, mode := range news.Modes {
		items = append(items, menu.Action(mode.String(), mode))
	}
	mn := menu.New("Filter", items...)
	mn.Select(m.mode)
	return mn
}

func (m Model) updateFilterMenu(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.filterMenu.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.filterMenu.Move(1)
	case key.Matches(msg, m.keys.Enter):
		if it, ok := m.filterMenu.Selected(); ok {
			m.setMode(it.Action)
		}
		m.filterMenu = nil
		m.screen = ScreenList
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Filter):
		m.filterMenu = nil
		m.screen = ScreenList
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.screen = ScreenList
	case tea.KeyEsc:
		if m.query != "" {
			m.query = ""
			m.regenerate = true
		}
		m.screen = ScreenList
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
			m.regenerate = true
		}
	case tea.KeySpace:
		m.query += " "
		m.regenerate = true
	case tea.KeyRunes:
		m.query += string(msg.Runes)
		m.regenerate = true
	}
	return m, nil
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	back := m.prev
	m.prev = ScreenList
	if !key.Matches(msg, m.keys.Confirm) {
		m.screen = back
		return m, nil
	}
	m.screen = ScreenList
	cmd := m.deleteCurrent()
	return m, cmd
}

func (m Model) updateExitConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm) {
		return m, tea.Quit
	}
	m.screen = m.prev
	m.prev = ScreenList
	return m, nil
}

// listHeight is the number of article rows between header and footer.
func (m Model) listHeight() int {
	_, h := m.screenSize()
	return max(1, h-2)
}

func (m *Model) ensureCursorVisible() {
	m.top = tuistate.Reveal(m.top, m.cursor, m.cursor+1, m.listHeight(), len(m.view))
}
