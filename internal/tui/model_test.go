package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/glabrego/alienfeed/internal/comments"
	"github.com/glabrego/alienfeed/internal/config"
	"github.com/glabrego/alienfeed/internal/fetcher"
	"github.com/glabrego/alienfeed/internal/news"
	"github.com/glabrego/alienfeed/internal/tui/actions"
	"github.com/glabrego/alienfeed/internal/tui/menu"
)

type flagCall struct {
	url    string
	update news.FlagUpdate
}

type fakeService struct {
	items     []news.Item
	thread    *comments.Thread
	listErr   error
	updateErr error
	deleteErr error

	listCalls int
	updates   []flagCall
	deleted   []string
}

func (f *fakeService) ListItems(_ context.Context, excluded []string) ([]news.Item, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]news.Item, 0, len(f.items))
	for _, it := range f.items {
		blocked := false
		for _, d := range excluded {
			if strings.EqualFold(d, it.Domain) {
				blocked = true
			}
		}
		if !blocked {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeService) UpdateFlags(_ context.Context, itemURL string, update news.FlagUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, flagCall{url: itemURL, update: update})
	return nil
}

func (f *fakeService) Delete(_ context.Context, itemURL string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, itemURL)
	return nil
}

func (f *fakeService) LoadComments(_ context.Context, detailLink string) *comments.Thread {
	if f.thread != nil {
		return f.thread
	}
	return comments.NewThread(detailLink, nil, comments.StatusEmpty)
}

func (f *fakeService) ExportBookmarks(context.Context, string) (string, error) {
	return "bookmarks.html", nil
}

func (f *fakeService) Backup(context.Context, string) (string, error) {
	return "backup.db", nil
}

func (f *fakeService) updatesFor(url string) int {
	n := 0
	for _, c := range f.updates {
		if c.url == url {
			n++
		}
	}
	return n
}

type harness struct {
	svc    *fakeService
	shared *fetcher.State
	saved  []config.Config
	opened []string
	copied []string
}

func sampleItems() []news.Item {
	return []news.Item{
		{URL: "https://a.com/1", Title: "Go 1.30 released", Category: "golang", Domain: "a.com", DetailLink: "/r/golang/comments/1/", CreatedAt: 500, IsNew: true},
		{URL: "https://b.com/2", Title: "Rust news", Category: "rust", Domain: "b.com", DetailLink: "/r/rust/comments/2/", CreatedAt: 400, IsNew: true},
		{URL: "https://youtube.com/watch?v=3", Title: "A video about foo", Category: "videos", Domain: "youtube.com", DetailLink: "/r/videos/comments/3/", CreatedAt: 300},
	}
}

func newHarness(t *testing.T, items []news.Item) (*harness, Model) {
	t.Helper()
	h := &harness{
		svc:    &fakeService{items: append([]news.Item(nil), items...)},
		shared: fetcher.NewState(time.Minute, config.DefaultCategories, nil),
	}
	cfg := config.Default()
	cfg.Dir = t.TempDir()
	cfg.General.ShowClock = false
	m := NewModel(h.svc, h.shared, cfg, items)
	m.SetSaveConfigFunc(func(c config.Config) error {
		h.saved = append(h.saved, c)
		return nil
	})
	m.SetOpenURLFunc(func(u string) error {
		h.opened = append(h.opened, u)
		return nil
	})
	m.SetCopyURLFunc(func(u string) error {
		h.copied = append(h.copied, u)
		return nil
	})
	m.SetPlayMediaFunc(func(string, string) error { return nil })
	m.SetOpenPathFunc(func(string) error { return nil })
	m.SetNowFunc(func() time.Time { return time.Unix(600, 0) })
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return h, next.(Model)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "delete":
		return tea.KeyMsg{Type: tea.KeyDelete}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestList_SelectionClampsAtBounds(t *testing.T) {
	_, m := newHarness(t, sampleItems())

	m, _ = press(t, m, "up", "up")
	if m.cursor != 0 {
		t.Fatalf("expected cursor 0 after moving up at top, got %d", m.cursor)
	}
	m, _ = press(t, m, "down", "down", "down", "down", "down")
	if m.cursor != 2 {
		t.Fatalf("expected cursor clamped at 2, got %d", m.cursor)
	}
	m, _ = press(t, m, "home")
	if m.cursor != 0 {
		t.Fatalf("expected home to select first row, got %d", m.cursor)
	}
	m, _ = press(t, m, "end", "pgdown")
	if m.cursor != 2 {
		t.Fatalf("expected end to select last row, got %d", m.cursor)
	}
}

func TestList_MarkSeenWritesOncePerItem(t *testing.T) {
	h, m := newHarness(t, sampleItems())

	m, _ = press(t, m, "down")
	if got := h.svc.updatesFor("https://b.com/2"); got != 1 {
		t.Fatalf("expected one store write for newly selected item, got %d", got)
	}
	if m.items[1].IsNew {
		t.Fatal("expected local copy to be marked seen")
	}
	m, _ = press(t, m, "up", "down", "up", "down")
	if got := h.svc.updatesFor("https://b.com/2"); got != 1 {
		t.Fatalf("expected no further writes for an already seen item, got %d", got)
	}
	if got := h.svc.updatesFor("https://youtube.com/watch?v=3"); got != 0 {
		t.Fatalf("expected no write for an item that was never new, got %d", got)
	}
	_ = m
}

func TestList_NavigationDoesNotRegenerateView(t *testing.T) {
	_, m := newHarness(t, sampleItems())
	before := m.regenerations

	m, _ = press(t, m, "down", "down", "up", "pgdown", "pgup", "end", "home")
	if m.regenerations != before {
		t.Fatalf("expected navigation to leave the view alone, regenerations %d -> %d", before, m.regenerations)
	}

	m, _ = press(t, m, "v")
	if m.regenerations != before+1 {
		t.Fatalf("expected mode change to regenerate once, got %d -> %d", before, m.regenerations)
	}
}

func TestList_MarkSeenKeepsItemInUnseenMode(t *testing.T) {
	_, m := newHarness(t, sampleItems())
	m.mode = news.ModeUnseen
	m.regenerate = true
	m.regenerateView()
	if len(m.view) != 2 {
		t.Fatalf("expected two unseen items, got %d", len(m.view))
	}

	m, _ = press(t, m, "down")
	if len(m.view) != 2 || m.cursor != 1 {
		t.Fatalf("expected the seen item to stay until the next regeneration, view=%v cursor=%d", m.view, m.cursor)
	}
}

func TestList_TwoStageEscape(t *testing.T) {
	_, m := newHarness(t, sampleItems())

	m, _ = press(t, m, "v")
	if m.mode != news.ModeBookmarks {
		t.Fatalf("expected bookmarks mode, got %s", m.mode)
	}
	m, cmd := press(t, m, "esc")
	if m.mode != news.ModeAll || m.screen != ScreenList || isQuit(cmd) {
		t.Fatalf("expected first esc to reset mode, got mode=%s screen=%s", m.mode, m.screen)
	}
	m, _ = press(t, m, "esc")
	if m.screen != ScreenExitConfirm {
		t.Fatalf("expected exit confirm, got %s", m.screen)
	}
	m, cmd = press(t, m, "n")
	if m.screen != ScreenList || isQuit(cmd) {
		t.Fatalf("expected non-y answer to cancel, got %s", m.screen)
	}
	m, cmd = press(t, m, "esc", "y")
	if !isQuit(cmd) {
		t.Fatal("expected y to quit")
	}
}

func TestSearch_EditsRegenerateAndEscClears(t *testing.T) {
	_, m := newHarness(t, sampleItems())

	m, _ = press(t, m, "/")
	if m.screen != ScreenSearchInput {
		t.Fatalf("expected search input, got %s", m.screen)
	}
	m = typeText(t, m, "rusx")
	m, _ = press(t, m, "backspace")
	m = typeText(t, m, "t")
	if m.query != "rust" || len(m.view) != 1 {
		t.Fatalf("expected one match for rust, query=%q view=%v", m.query, m.view)
	}
	m, _ = press(t, m, "enter")
	if m.screen != ScreenList || m.query != "rust" {
		t.Fatalf("expected enter to keep query, screen=%s query=%q", m.screen, m.query)
	}
	m, _ = press(t, m, "esc")
	if m.query != "" || len(m.view) != 3 || m.screen != ScreenList {
		t.Fatalf("expected esc in list to clear the query first, query=%q view=%v screen=%s", m.query, m.view, m.screen)
	}

	m, _ = press(t, m, "/", "g", "o", "esc")
	if m.query != "" || len(m.view) != 3 {
		t.Fatalf("expected esc in search input to clear the query, got %q", m.query)
	}
}

func TestDeleteConfirm_CancelAndConfirm(t *testing.T) {
	h, m := newHarness(t, sampleItems())

	m, _ = press(t, m, "down", "d")
	if m.screen != ScreenDeleteConfirm {
		t.Fatalf("expected delete confirm, got %s", m.screen)
	}
	m, _ = press(t, m, "x")
	if m.screen != ScreenList || len(m.items) != 3 || len(h.svc.deleted) != 0 {
		t.Fatalf("expected cancel to change nothing, screen=%s items=%d deleted=%v", m.screen, len(m.items), h.svc.deleted)
	}
	if m.cursor != 1 {
		t.Fatalf("expected selection to survive cancel, got %d", m.cursor)
	}

	m, _ = press(t, m, "delete", "y")
	if len(h.svc.deleted) != 1 || h.svc.deleted[0] != "https://b.com/2" {
		t.Fatalf("expected selected item deleted, got %v", h.svc.deleted)
	}
	if len(m.items) != 2 || len(m.view) != 2 || m.cursor != 1 {
		t.Fatalf("expected two items with cursor kept at row 1, items=%d view=%v cursor=%d", len(m.items), m.view, m.cursor)
	}
	if m.items[m.view[m.cursor]].URL != "https://youtube.com/watch?v=3" {
		t.Fatalf("unexpected selection after delete: %s", m.items[m.view[m.cursor]].URL)
	}
}

func TestScenarioB_BookmarkThenBookmarksMode(t *testing.T) {
	items := []news.Item{
		{URL: "http://a.com", Title: "A", Domain: "a.com", CreatedAt: 2},
		{URL: "http://b.com", Title: "B", Domain: "b.com", CreatedAt: 1},
	}
	h, m := newHarness(t, items)

	m, _ = press(t, m, "b")
	if len(h.svc.updates) != 1 || h.svc.updates[0].url != "http://a.com" || !*h.svc.updates[0].update.IsBookmarked {
		t.Fatalf("expected one bookmark write for http://a.com, got %+v", h.svc.updates)
	}
	m, _ = press(t, m, "v")
	if len(m.view) != 1 || m.items[m.view[0]].URL != "http://a.com" {
		t.Fatalf("expected bookmarks view with exactly http://a.com, got %v", m.view)
	}
}

func TestActionMenu_EnterMarksReadAndExecutesOnce(t *testing.T) {
	h, m := newHarness(t, sampleItems())

	m, _ = press(t, m, "enter")
	if m.screen != ScreenActionMenu {
		t.Fatalf("expected action menu, got %s", m.screen)
	}
	if !m.items[0].IsRead || m.items[0].IsNew {
		t.Fatalf("expected item marked read and seen, got %+v", m.items[0])
	}
	if it, ok := m.actionMenu.Selected(); !ok || it.Action != actionOpen {
		t.Fatalf("expected cursor on Open Article, got %+v", it)
	}

	m, cmd := press(t, m, "enter")
	if m.screen != ScreenList || m.actionMenu != nil {
		t.Fatalf("expected menu closed after action, got %s", m.screen)
	}
	if cmd == nil {
		t.Fatal("expected open command")
	}
	if _, ok := cmd().(actions.OpenURLSuccessMsg); !ok {
		t.Fatal("expected open to succeed")
	}
	if len(h.opened) != 1 || h.opened[0] != "https://a.com/1" {
		t.Fatalf("expected article opened once, got %v", h.opened)
	}

	m, _ = press(t, m, "enter")
	if !m.actionMenu.Select(actionBookmark) {
		t.Fatal("expected bookmark action selectable")
	}
	writes := len(h.svc.updates)
	m, _ = press(t, m, "enter")
	if len(h.svc.updates) != writes+1 || !m.items[0].IsBookmarked {
		t.Fatalf("expected a single bookmark write before close, writes %d -> %d", writes, len(h.svc.updates))
	}
}

func TestActionMenu_MenuShape(t *testing.T) {
	_, m := newHarness(t, sampleItems())

	mn := m.buildActionMenu(m.items[0])
	if mn.Select(actionPlayMedia) {
		t.Fatal("expected Play Media disabled for a non-media domain")
	}
	seps := 0
	for _, it := range mn.Items {
		if it.Kind == menu.KindSeparator {
			seps++
		}
	}
	if seps != 2 {
		t.Fatalf("expected two separators, got %d", seps)
	}
	if !m.buildActionMenu(m.items[2]).Select(actionPlayMedia) {
		t.Fatal("expected Play Media enabled for youtube.com")
	}
	mn.Move(4)
	if it, ok := mn.Selected(); !ok || it.Action != actionCopyURL {
		t.Fatalf("expected separator skipped onto Copy URL, got %+v", it)
	}
}

func TestActionMenu_LinkBuilders(t *testing.T) {
	if got := archiveURL("https://a.com/x?y=1"); got != "https://archive.is/https%3A%2F%2Fa.com%2Fx%3Fy%3D1" {
		t.Fatalf("unexpected archive URL %q", got)
	}
	if got := summarizeURL("https://a.com/x"); got != "https://www.perplexity.ai/?s=o&q=summarize+https%3A%2F%2Fa.com%2Fx" {
		t.Fatalf("unexpected summarize URL %q", got)
	}
}

func TestActionMenu_ExcludeDomain(t *testing.T) {
	h, m := newHarness(t, sampleItems())

	m, _ = press(t, m, "end", "enter")
	m.actionMenu.Select(actionExcludeDomain)
	m, _ = press(t, m, "enter")

	if len(m.items) != 2 || len(m.view) != 2 {
		t.Fatalf("expected youtube item dropped, items=%d view=%d", len(m.items), len(m.view))
	}
	if !h.shared.IsBlocked("youtube.com") {
		t.Fatal("expected shared state to block youtube.com")
	}
	if len(h.saved) != 1 || h.saved[0].General.BlockedDomains[0] != "youtube.com" {
		t.Fatalf("expected config saved with blocked domain, got %+v", h.saved)
	}
}

func TestSettings_CommitOnClose(t *testing.T) {
	h, m := newHarness(t, sampleItems())

	m, _ = press(t, m, "s")
	if m.screen != ScreenSettings {
		t.Fatalf("expected settings, got %s", m.screen)
	}
	m, _ = press(t, m, "right", "right", "left")
	if m.settings.interval != config.DefaultIntervalSecs+config.IntervalStepSecs {
		t.Fatalf("expected pending interval %d, got %d", config.DefaultIntervalSecs+config.IntervalStepSecs, m.settings.interval)
	}
	m.settings.menu.Select(fieldMute)
	m = typeText(t, m, "foo")
	if len(h.saved) != 0 {
		t.Fatal("expected nothing saved before close")
	}
	before := m.regenerations

	m, _ = press(t, m, "esc")
	if m.screen != ScreenList || m.settings != nil {
		t.Fatalf("expected settings closed, got %s", m.screen)
	}
	if len(h.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(h.saved))
	}
	saved := h.saved[0]
	if saved.General.FetchIntervalSeconds != 315 || len(saved.Active().MuteKeywords) != 1 || saved.Active().MuteKeywords[0] != "foo" {
		t.Fatalf("unexpected saved config: %+v %+v", saved.General, saved.Active())
	}
	if h.shared.Interval() != 315*time.Second {
		t.Fatalf("expected shared interval updated, got %s", h.shared.Interval())
	}
	if m.regenerations <= before || len(m.view) != 2 {
		t.Fatalf("expected muted item hidden after regeneration, view=%v", m.view)
	}
}

func TestSettings_IntervalFloor(t *testing.T) {
	_, m := newHarness(t, sampleItems())
	m, _ = press(t, m, "s")
	for i := 0; i < 40; i++ {
		m, _ = press(t, m, "left")
	}
	if m.settings.interval != config.MinIntervalSecs {
		t.Fatalf("expected interval floor %d, got %d", config.MinIntervalSecs, m.settings.interval)
	}
}

func TestSettings_ThemeCyclesAndImportScreen(t *testing.T) {
	_, m := newHarness(t, sampleItems())
	m, _ = press(t, m, "s")
	m.settings.menu.Select(fieldTheme)
	m, _ = press(t, m, "right")
	if m.theme.Name != "Solarized Dark" {
		t.Fatalf("expected theme preview, got %s", m.theme.Name)
	}
	m.settings.menu.Select(fieldImport)
	m, cmd := press(t, m, "enter")
	if m.screen != ScreenImport || cmd == nil {
		t.Fatalf("expected import screen with open-dir command, got %s", m.screen)
	}
	m, _ = press(t, m, "esc")
	if m.screen != ScreenSettings {
		t.Fatalf("expected return to settings, got %s", m.screen)
	}
}

func testThread() *comments.Thread {
	d := &comments.Node{Author: "dave", Body: "leaf", Depth: 2}
	b := &comments.Node{Author: "bob", Body: "See [src](https://example.com/src) and https://x.org/y", Depth: 1}
	c := &comments.Node{Author: "carol", Body: "middle", Depth: 1, Children: []*comments.Node{d}}
	a := &comments.Node{Author: "alice", Body: "root", Children: []*comments.Node{b, c}}
	e := &comments.Node{Author: "erin", Body: "second root"}
	return comments.NewThread("/r/golang/comments/1/", []*comments.Node{a, e}, "")
}

func TestComments_LoadToggleAndLinks(t *testing.T) {
	h, m := newHarness(t, sampleItems())

	m, cmd := press(t, m, "c")
	if m.screen != ScreenComments || !m.commentsLoading || cmd == nil {
		t.Fatalf("expected loading comments screen, got %s loading=%v", m.screen, m.commentsLoading)
	}
	next, _ := m.Update(actions.CommentsLoadedMsg{Link: "/r/golang/comments/1/", Thread: testThread()})
	m = next.(Model)
	if m.commentsLoading || m.thread.Len() != 5 {
		t.Fatalf("expected five visible comments, got %d", m.thread.Len())
	}

	m, _ = press(t, m, "enter")
	if m.thread.Len() != 2 {
		t.Fatalf("expected collapse to leave two roots, got %d", m.thread.Len())
	}
	m, _ = press(t, m, "enter", "right")
	if m.thread.SelectedNode().Author != "erin" {
		t.Fatalf("expected jump to next root, got %s", m.thread.SelectedNode().Author)
	}
	m, _ = press(t, m, "left", "down")
	if m.thread.SelectedNode().Author != "bob" {
		t.Fatalf("expected bob selected, got %s", m.thread.SelectedNode().Author)
	}

	m, _ = press(t, m, "l")
	if m.screen != ScreenLinkPopup || len(m.links) != 2 {
		t.Fatalf("expected link popup with two links, got %s %v", m.screen, m.links)
	}
	m, cmd = press(t, m, "y")
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	cmd()
	if len(h.copied) != 1 || h.copied[0] != "https://example.com/src" {
		t.Fatalf("expected markdown link copied first, got %v", h.copied)
	}
	m, _ = press(t, m, "esc")
	if m.screen != ScreenComments {
		t.Fatalf("expected back to comments, got %s", m.screen)
	}
	m, _ = press(t, m, "esc")
	if m.screen != ScreenList || m.thread != nil {
		t.Fatalf("expected comments discarded, got %s", m.screen)
	}
}

func TestComments_LateResultIgnoredAfterClose(t *testing.T) {
	_, m := newHarness(t, sampleItems())
	m, _ = press(t, m, "c", "esc")
	next, _ := m.Update(actions.CommentsLoadedMsg{Link: "/r/golang/comments/1/", Thread: testThread()})
	m = next.(Model)
	if m.thread != nil || m.screen != ScreenList {
		t.Fatalf("expected late result dropped, screen=%s", m.screen)
	}
}

func TestRedraw_FrameReusedUntilStateChanges(t *testing.T) {
	_, m := newHarness(t, sampleItems())

	first := m.View()
	paints := m.redraw.paints
	if again := m.View(); again != first || m.redraw.paints != paints {
		t.Fatal("expected cached frame without a repaint")
	}

	next, cmd := m.Update(actions.PollMsg{At: time.Unix(600, 0)})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected poll to reschedule itself")
	}
	m.View()
	if m.redraw.paints != paints {
		t.Fatalf("expected idle poll not to repaint, paints %d -> %d", paints, m.redraw.paints)
	}

	m, _ = press(t, m, "down")
	m.View()
	if m.redraw.paints != paints+1 {
		t.Fatalf("expected key press to repaint once, paints %d -> %d", paints, m.redraw.paints)
	}
}

func TestPoll_NewArticlesReloadAndKeepSelection(t *testing.T) {
	h, m := newHarness(t, sampleItems())
	m, _ = press(t, m, "down")
	before := m.regenerations

	h.svc.items = append([]news.Item{{URL: "https://c.com/0", Title: "Fresh", Domain: "c.com", CreatedAt: 900, IsNew: true}}, h.svc.items...)
	h.shared.RecordCycle(1, nil, time.Unix(650, 0))

	next, _ := m.Update(actions.PollMsg{At: time.Unix(660, 0)})
	m = next.(Model)
	if len(m.items) != 4 || m.regenerations != before+1 {
		t.Fatalf("expected reload with 4 items, got %d (regenerations %d -> %d)", len(m.items), before, m.regenerations)
	}
	if !m.connectionOK || !m.lastChecked.Equal(time.Unix(650, 0)) {
		t.Fatalf("expected indicators updated, ok=%v checked=%s", m.connectionOK, m.lastChecked)
	}
	if got := m.items[m.view[m.cursor]].URL; got != "https://b.com/2" {
		t.Fatalf("expected selection anchored on b.com, got %s", got)
	}
}

func TestPoll_ReloadShrinkingListClampsSelection(t *testing.T) {
	h, m := newHarness(t, sampleItems())
	m, _ = press(t, m, "end")
	if m.cursor != 2 {
		t.Fatalf("expected cursor on last row, got %d", m.cursor)
	}

	h.svc.items = h.svc.items[:1]
	h.shared.RecordCycle(1, nil, time.Unix(650, 0))
	next, _ := m.Update(actions.PollMsg{At: time.Unix(660, 0)})
	m = next.(Model)
	if len(m.view) != 1 || m.cursor != 0 {
		t.Fatalf("expected one row with cursor 0, got view=%v cursor=%d", m.view, m.cursor)
	}
	if got := m.current().URL; got != "https://a.com/1" {
		t.Fatalf("expected a.com selected, got %s", got)
	}
}

func TestSettings_BlockingSelectedDomainReloadsWithoutLosingRow(t *testing.T) {
	h, m := newHarness(t, sampleItems())
	m, _ = press(t, m, "end", "s")
	m.settings.menu.Select(fieldBlocked)
	m = typeText(t, m, "youtube.com")
	listCalls := h.svc.listCalls

	m, _ = press(t, m, "esc")
	if h.svc.listCalls != listCalls+1 {
		t.Fatalf("expected one store reload, got %d", h.svc.listCalls-listCalls)
	}
	if len(m.items) != 2 || len(m.view) != 2 {
		t.Fatalf("expected youtube.com dropped, got items=%d view=%v", len(m.items), m.view)
	}
	if m.cursor != 1 || m.current().URL != "https://b.com/2" {
		t.Fatalf("expected cursor clamped onto b.com, got %d", m.cursor)
	}
	if m.View() == "" {
		t.Fatal("expected a frame after reload")
	}
}

func TestSettings_ApplyErrorKeepsFormOpen(t *testing.T) {
	h, m := newHarness(t, sampleItems())
	m.cfg.Profiles = nil
	m, _ = press(t, m, "s")
	m.settings.menu.Select(fieldMute)
	m = typeText(t, m, "rust")

	m, _ = press(t, m, "esc")
	if m.screen != ScreenSettings || m.settings == nil {
		t.Fatalf("expected settings to stay open, got %s", m.screen)
	}
	if m.settings.text[fieldMute] != "rust" {
		t.Fatalf("expected pending edit kept, got %q", m.settings.text[fieldMute])
	}
	if !strings.Contains(m.status, "Could not apply settings") {
		t.Fatalf("expected apply error status, got %q", m.status)
	}
	if len(h.saved) != 0 {
		t.Fatalf("expected nothing saved, got %d", len(h.saved))
	}
}

func TestPoll_FetcherStoreFailureQuits(t *testing.T) {
	h, m := newHarness(t, sampleItems())
	h.shared.Fail(errors.New("disk I/O error"))

	next, cmd := m.Update(actions.PollMsg{At: time.Unix(600, 0)})
	m = next.(Model)
	if !isQuit(cmd) || m.Err() == nil {
		t.Fatalf("expected quit with fatal error, err=%v", m.Err())
	}
}

func TestStoreWriteFailureIsFatal(t *testing.T) {
	h, m := newHarness(t, sampleItems())
	h.svc.updateErr = errors.New("database or disk is full")

	m, cmd := press(t, m, "down")
	if !isQuit(cmd) || m.Err() == nil || !strings.Contains(m.Err().Error(), "disk is full") {
		t.Fatalf("expected fatal store error, got %v", m.Err())
	}
}

func TestProfiles_ValidationAndSwitch(t *testing.T) {
	h, m := newHarness(t, sampleItems())

	m, _ = press(t, m, "p")
	if m.screen != ScreenProfileManager {
		t.Fatalf("expected profile manager, got %s", m.screen)
	}
	m, _ = press(t, m, "d")
	if !strings.Contains(m.profiles.err, "default profile") || len(m.cfg.Profiles) != 1 {
		t.Fatalf("expected default profile delete rejected, got %q", m.profiles.err)
	}

	m, _ = press(t, m, "n", "enter")
	if m.profiles.err != config.ErrEmptyProfileName.Error() {
		t.Fatalf("expected empty-name error, got %q", m.profiles.err)
	}
	m = typeText(t, m, "work")
	m, _ = press(t, m, "enter")
	if len(m.cfg.Profiles) != 2 || m.profiles.naming || len(h.saved) != 1 {
		t.Fatalf("expected profile created and saved, profiles=%d saved=%d", len(m.cfg.Profiles), len(h.saved))
	}
	if m.cfg.Profiles[m.profiles.cursor].Name != "work" {
		t.Fatalf("expected cursor on new profile, got %d", m.profiles.cursor)
	}

	m, cmd := press(t, m, "enter")
	if !isQuit(cmd) || m.NextProfile() != "work" {
		t.Fatalf("expected switch to quit for restart, next=%q", m.NextProfile())
	}
	if h.saved[len(h.saved)-1].ActiveProfile != "work" {
		t.Fatalf("expected active profile persisted, got %q", h.saved[len(h.saved)-1].ActiveProfile)
	}
}

func TestView_BaseAndOverlays(t *testing.T) {
	_, m := newHarness(t, sampleItems())

	frame := ansi.Strip(m.View())
	lines := strings.Split(frame, "\n")
	if len(lines) != 30 {
		t.Fatalf("expected full-height frame, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Alien News Feed") || !strings.Contains(lines[0], "[default]") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "> ") || !strings.Contains(lines[1], "Go 1.30 released") {
		t.Fatalf("expected first row selected, got %q", lines[1])
	}
	if !strings.Contains(lines[len(lines)-1], "3/3") {
		t.Fatalf("expected counts in footer, got %q", lines[len(lines)-1])
	}

	m, _ = press(t, m, "esc")
	if frame := ansi.Strip(m.View()); !strings.Contains(frame, "Quit Alien News Feed?") {
		t.Fatal("expected exit confirmation popup")
	}
	m, _ = press(t, m, "n", "enter")
	frame = ansi.Strip(m.View())
	if !strings.Contains(frame, "Open Article") || !strings.Contains(frame, "Go 1.30 released") {
		t.Fatal("expected action menu over the list")
	}
	m, _ = press(t, m, "esc", "h")
	if frame := ansi.Strip(m.View()); !strings.Contains(frame, "toggle bookmark") {
		t.Fatal("expected help popup")
	}
}
