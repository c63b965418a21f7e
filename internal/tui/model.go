package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/alienfeed/internal/comments"
	"github.com/glabrego/alienfeed/internal/config"
	"github.com/glabrego/alienfeed/internal/fetcher"
	"github.com/glabrego/alienfeed/internal/filter"
	"github.com/glabrego/alienfeed/internal/news"
	"github.com/glabrego/alienfeed/internal/tui/actions"
	"github.com/glabrego/alienfeed/internal/tui/menu"
	"github.com/glabrego/alienfeed/internal/tui/platform"
	tuistate "github.com/glabrego/alienfeed/internal/tui/state"
	tuitheme "github.com/glabrego/alienfeed/internal/tui/theme"
)

const statusTTL = 5 * time.Second

type Service interface {
	actions.Service
	ListItems(ctx context.Context, excludedDomains []string) ([]news.Item, error)
	UpdateFlags(ctx context.Context, itemURL string, update news.FlagUpdate) error
	Delete(ctx context.Context, itemURL string) error
}

// Screen is the mode that currently receives input. Exactly one is active.
type Screen int

const (
	ScreenList Screen = iota
	ScreenComments
	ScreenSettings
	ScreenFilterMenu
	ScreenActionMenu
	ScreenProfileManager
	ScreenLinkPopup
	ScreenDeleteConfirm
	ScreenExitConfirm
	ScreenHelp
	ScreenImport
	ScreenSearchInput
)

func (s Screen) String() string {
	switch s {
	case ScreenComments:
		return "comments"
	case ScreenSettings:
		return "settings"
	case ScreenFilterMenu:
		return "filter-menu"
	case ScreenActionMenu:
		return "action-menu"
	case ScreenProfileManager:
		return "profiles"
	case ScreenLinkPopup:
		return "links"
	case ScreenDeleteConfirm:
		return "delete-confirm"
	case ScreenExitConfirm:
		return "exit-confirm"
	case ScreenHelp:
		return "help"
	case ScreenImport:
		return "import"
	case ScreenSearchInput:
		return "search"
	default:
		return "list"
	}
}

// redrawState is shared by every copy of a Model so View can hand back the
// last painted frame until a handler asks for a repaint.
type redrawState struct {
	needed bool
	frame  string
	paints int
}

type Model struct {
	service Service
	shared  *fetcher.State
	cfg     config.Config
	theme   tuitheme.Theme
	keys    keyMap

	items  []news.Item
	view   []int
	cursor int
	top    int
	mode   news.Mode
	query  string

	screen Screen
	prev   Screen

	regenerate    bool
	regenerations int
	redraw        *redrawState

	width  int
	height int

	status       string
	statusID     int
	connectionOK bool
	lastChecked  time.Time
	lastError    string
	clock        string

	actionMenu *menu.Menu[itemAction]
	filterMenu *menu.Menu[news.Mode]
	settings   *settingsForm
	profiles   profileManager

	thread          *comments.Thread
	commentsLoading bool
	spinner         spinner.Model
	links           []comments.Link
	linkCursor      int

	fatalErr    error
	nextProfile string

	openURLFn    func(string) error
	copyURLFn    func(string) error
	playMediaFn  func(player, url string) error
	openPathFn   func(string) error
	saveConfigFn func(config.Config) error
	nowFn        func() time.Time
}

func NewModel(service Service, shared *fetcher.State, cfg config.Config, items []news.Item) Model {
	m := Model{
		service:      service,
		shared:       shared,
		cfg:          cfg.Clone(),
		theme:        tuitheme.ByName(cfg.General.Theme),
		keys:         defaultKeyMap(),
		items:        append([]news.Item(nil), items...),
		redraw:       &redrawState{needed: true},
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		openURLFn:    platform.OpenURLInBrowser,
		copyURLFn:    platform.CopyURLToClipboard,
		playMediaFn:  platform.PlayMedia,
		openPathFn:   platform.OpenPath,
		saveConfigFn: func(c config.Config) error { return c.Save() },
		nowFn:        time.Now,
	}
	if shared != nil {
		snap := shared.Snapshot()
		m.connectionOK = snap.ConnectionOK
		m.lastChecked = snap.LastChecked
	}
	m.regenerate = true
	m.regenerateView()
	return m
}

func (m Model) Init() tea.Cmd {
	return actions.PollCmd()
}

// Err is the fatal error that ended the program, if any.
func (m Model) Err() error { return m.fatalErr }

// NextProfile names the profile to restart with after a profile switch.
func (m Model) NextProfile() string { return m.nextProfile }

func (m Model) Screen() Screen { return m.screen }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		m.revealComment()
		m.touch()
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
		m.touch()
	case actions.PollMsg:
		m, cmd = m.handlePoll(msg)
	case spinner.TickMsg:
		if !m.commentsLoading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		if m.screen == ScreenComments {
			m.touch()
		}
	case actions.CommentsLoadedMsg:
		if m.thread == nil || m.thread.Link != msg.Link || !m.commentsLoading {
			return m, nil
		}
		m.thread = msg.Thread
		m.commentsLoading = false
		m.revealComment()
		m.touch()
	case actions.OpenURLSuccessMsg:
		cmd = m.setStatus(msg.Status)
		m.touch()
	case actions.OpenURLErrorMsg:
		cmd = m.setStatus(msg.Err.Error())
		m.touch()
	case actions.ExportSuccessMsg:
		label := "Bookmarks exported to "
		if msg.Kind == "backup" {
			label = "Backup written to "
		}
		cmd = m.setStatus(label + msg.Path)
		m.touch()
	case actions.ExportErrorMsg:
		cmd = m.setStatus(fmt.Sprintf("Export failed: %v", msg.Err))
		m.touch()
	case actions.ClearStatusMsg:
		if msg.ID == m.statusID && m.status != "" {
			m.status = ""
			m.touch()
		}
	}
	if m.fatalErr != nil {
		return m, tea.Quit
	}
	m.regenerateView()
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.screen {
	case ScreenComments:
		return m.updateComments(msg)
	case ScreenLinkPopup:
		return m.updateLinkPopup(msg)
	case ScreenActionMenu:
		return m.updateActionMenu(msg)
	case ScreenFilterMenu:
		return m.updateFilterMenu(msg)
	case ScreenSettings:
		return m.updateSettings(msg)
	case ScreenProfileManager:
		return m.updateProfiles(msg)
	case ScreenDeleteConfirm:
		return m.updateDeleteConfirm(msg)
	case ScreenExitConfirm:
		return m.updateExitConfirm(msg)
	case ScreenHelp:
		m.screen = ScreenList
		return m, nil
	case ScreenImport:
		return m.updateImport(msg)
	case ScreenSearchInput:
		return m.updateSearch(msg)
	default:
		return m.updateList(msg)
	}
}

// handlePoll drains the fetcher's shared state. Nothing is repainted unless a
// visible field changed.
func (m Model) handlePoll(msg actions.PollMsg) (Model, tea.Cmd) {
	next := actions.PollCmd()
	if m.shared != nil {
		snap := m.shared.Consume()
		if snap.Fatal != nil {
			m.fatalErr = fmt.Errorf("fetcher stopped: %w", snap.Fatal)
			return m, nil
		}
		if snap.Updated {
			if snap.ConnectionOK != m.connectionOK || !snap.LastChecked.Equal(m.lastChecked) || snap.LastError != m.lastError {
				m.touch()
			}
			m.connectionOK = snap.ConnectionOK
			m.lastChecked = snap.LastChecked
			m.lastError = snap.LastError
		}
		if snap.HasNew {
			m.reloadItems()
		}
	}
	if m.cfg.General.ShowClock {
		at := msg.At
		if at.IsZero() {
			at = m.nowFn()
		}
		if clock := at.Format("15:04"); clock != m.clock {
			m.clock = clock
			m.touch()
		}
	}
	return m, next
}

// reloadItems re-reads the store after the fetcher inserted rows.
func (m *Model) reloadItems() {
	if m.service == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	items, err := m.service.ListItems(ctx, m.cfg.General.BlockedDomains)
	if err != nil {
		m.fail(err)
		return
	}
	m.replaceItems(items)
}

// replaceItems swaps in a fresh article set and rebuilds the view in the same
// step. The anchor is read while m.view still indexes the old slice.
func (m *Model) replaceItems(items []news.Item) {
	anchor := m.anchorURL()
	m.items = items
	m.rebuildView(anchor)
}

// fail records a store failure. Update quits the program once it is set.
func (m *Model) fail(err error) {
	if err == nil || m.fatalErr != nil {
		return
	}
	m.fatalErr = err
}

func (m *Model) touch() {
	m.redraw.needed = true
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusID++
	return actions.ClearStatusCmd(m.statusID, statusTTL)
}

// regenerateView reruns the filter pipeline when something marked it stale.
// The selection follows the previously selected article when it survives.
func (m *Model) regenerateView() {
	if !m.regenerate {
		return
	}
	m.rebuildView(m.anchorURL())
}

func (m *Model) rebuildView(anchor string) {
	m.regenerate = false
	m.regenerations++
	m.view = filter.Apply(m.items, m.criteria())
	m.restoreSelection(anchor)
	m.touch()
}

func (m Model) criteria() filter.Criteria {
	p := m.cfg.Active()
	return filter.Criteria{
		Mute:      p.MuteKeywords,
		Highlight: p.HighlightKeywords,
		Mode:      m.mode,
		Query:     m.query,
	}
}

func (m Model) anchorURL() string {
	if item := m.current(); item != nil {
		return item.URL
	}
	return ""
}

func (m *Model) restoreSelection(anchor string) {
	if anchor != "" {
		for pos, idx := range m.view {
			if m.items[idx].URL == anchor {
				m.cursor = pos
				m.ensureCursorVisible()
				return
			}
		}
	}
	m.cursor = tuistate.ClampCursor(m.cursor, len(m.view))
	m.ensureCursorVisible()
}

// current returns the selected article, or nil when the view is empty.
func (m *Model) current() *news.Item {
	if m.cursor < 0 || m.cursor >= len(m.view) {
		return nil
	}
	return &m.items[m.view[m.cursor]]
}

func (m *Model) updateFlags(item *news.Item, update news.FlagUpdate) bool {
	if m.service != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.service.UpdateFlags(ctx, item.URL, update); err != nil {
			m.fail(err)
			return false
		}
	}
	update.Apply(item)
	return true
}

// saveConfig persists cfg. A failure is reported but does not end the session.
func (m *Model) saveConfig(cfg config.Config) tea.Cmd {
	if m.saveConfigFn == nil {
		return nil
	}
	if err := m.saveConfigFn(cfg); err != nil {
		return m.setStatus(fmt.Sprintf("Could not save settings: %v", err))
	}
	return nil
}

func (m *Model) SetOpenURLFunc(fn func(string) error) { m.openURLFn = fn }
func (m *Model) SetCopyURLFunc(fn func(string) error) { m.copyURLFn = fn }
func (m *Model) SetPlayMediaFunc(fn func(string, string) error) { m.playMediaFn = fn }
func (m *Model) SetOpenPathFunc(fn func(string) error) { m.openPathFn = fn }
func (m *Model) SetSaveConfigFunc(fn func(config.Config) error) { m.saveConfigFn = fn }
func (m *Model) SetNowFunc(fn func() time.Time) { m.nowFn = fn }
