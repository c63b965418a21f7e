package tui

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/alienfeed/internal/news"
	"github.com/glabrego/alienfeed/internal/source"
	"github.com/glabrego/alienfeed/internal/tui/actions"
	"github.com/glabrego/alienfeed/internal/tui/menu"
	"github.com/glabrego/alienfeed/internal/tui/platform"
)

type itemAction int

const (
	actionOpen itemAction = iota
	actionComments
	actionCommentsInBrowser
	actionSummarize
	actionCopyURL
	actionArchive
	actionBookmark
	actionPlayMedia
	actionExcludeDomain
	actionDelete
)

func summarizeURL(target string) string {
	return "https://www.perplexity.ai/?s=o&q=" + url.QueryEscape("summarize "+target)
}

func archiveURL(target string) string {
	return "https://archive.is/" + url.QueryEscape(target)
}

func (m Model) buildActionMenu(item news.Item) *menu.Menu[itemAction] {
	bookmark := "Bookmark"
	if item.IsBookmarked {
		bookmark = "Remove Bookmark"
	}
	hasComments := func() bool { return strings.TrimSpace(item.DetailLink) != "" }
	isMedia := func() bool { return news.IsMediaDomain(item.Domain) }
	hasDomain := func() bool { return item.Domain != "" }

	return menu.New(item.Title,
		menu.Action("Open Article", actionOpen),
		menu.Action("View Comments", actionComments).When(hasComments),
		menu.Action("Open Comments in Browser", actionCommentsInBrowser).When(hasComments),
		menu.Action("Summarize", actionSummarize),
		menu.Separator[itemAction](),
		menu.Action("Copy URL", actionCopyURL),
		menu.Action("Archive Page", actionArchive),
		menu.Action(bookmark, actionBookmark),
		menu.Action("Play Media", actionPlayMedia).When(isMedia),
		menu.Separator[itemAction](),
		menu.Action("Exclude Domain", actionExcludeDomain).When(hasDomain),
		menu.Action("Delete", actionDelete),
	)
}

func (m Model) updateActionMenu(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.actionMenu.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.actionMenu.Move(1)
	case key.Matches(msg, m.keys.Back):
		m.actionMenu = nil
		m.screen = ScreenList
	case key.Matches(msg, m.keys.Enter):
		it, ok := m.actionMenu.Selected()
		m.actionMenu = nil
		m.screen = ScreenList
		if !ok {
			return m, nil
		}
		return m.runItemAction(it.Action)
	}
	return m, nil
}

// runItemAction executes one action against the selected article. Store and
// settings changes happen before it returns.
func (m Model) runItemAction(action itemAction) (Model, tea.Cmd) {
	item := m.current()
	if item == nil {
		return m, nil
	}
	switch action {
	case actionOpen:
		cmd := m.openURL(item.URL)
		return m, cmd
	case actionComments:
		return m.openComments()
	case actionCommentsInBrowser:
		cmd := m.openURL(source.CommentsURL(item.DetailLink))
		return m, cmd
	case actionSummarize:
		cmd := m.openURL(summarizeURL(item.URL))
		return m, cmd
	case actionCopyURL:
		return m, actions.CopyURLCmd(item.URL, m.copyURLFn)
	case actionArchive:
		cmd := m.openURL(archiveURL(item.URL))
		return m, cmd
	case actionBookmark:
		cmd := m.toggleBookmark()
		return m, cmd
	case actionPlayMedia:
		return m, actions.PlayMediaCmd(m.cfg.General.MediaPlayer, item.URL, m.playMediaFn)
	case actionExcludeDomain:
		cmd := m.excludeDomain(item.Domain)
		return m, cmd
	case actionDelete:
		m.prev = ScreenList
		m.screen = ScreenDeleteConfirm
	}
	return m, nil
}

func (m *Model) openURL(raw string) tea.Cmd {
	target, err := platform.ValidateEntryURL(raw)
	if err != nil {
		return m.setStatus(err.Error())
	}
	return actions.OpenURLCmd(target, m.openURLFn, m.copyURLFn)
}

// excludeDomain blocks domain for future fetches and hides what is already stored.
func (m *Model) excludeDomain(domain string) tea.Cmd {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil
	}
	cfg := m.cfg.Clone()
	for _, d := range cfg.General.BlockedDomains {
		if strings.EqualFold(d, domain) {
			return m.setStatus(domain + " is already excluded")
		}
	}
	cfg.General.BlockedDomains = append(cfg.General.BlockedDomains, domain)
	m.cfg = cfg
	if m.shared != nil {
		m.shared.SetBlockedDomains(cfg.General.BlockedDomains)
	}

	kept := make([]news.Item, 0, len(m.items))
	for _, it := range m.items {
		if !strings.EqualFold(it.Domain, domain) {
			kept = append(kept, it)
		}
	}
	m.items = kept
	m.view = nil
	m.regenerate = true

	if cmd := m.saveConfig(cfg); cmd != nil {
		return cmd
	}
	return m.setStatus("Excluded " + domain)
}
