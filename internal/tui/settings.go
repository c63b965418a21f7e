package tui

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/alienfeed/internal/config"
	"github.com/glabrego/alienfeed/internal/tui/actions"
	"github.com/glabrego/alienfeed/internal/tui/menu"
	tuitheme "github.com/glabrego/alienfeed/internal/tui/theme"
	"github.com/glabrego/alienfeed/internal/tui/view"
)

type settingField int

const (
	fieldInterval settingField = iota
	fieldTheme
	fieldClock
	fieldCategories
	fieldBlocked
	fieldMute
	fieldHighlight
	fieldPlayer
	fieldExportBookmarks
	fieldBackup
	fieldImport
)

func (f settingField) editable() bool {
	switch f {
	case fieldCategories, fieldBlocked, fieldMute, fieldHighlight, fieldPlayer:
		return true
	}
	return false
}

// settingsForm holds pending values. Nothing reaches the config until the
// screen is closed.
type settingsForm struct {
	menu     *menu.Menu[settingField]
	interval int
	theme    string
	clock    bool
	text     map[settingField]string
}

func newSettingsForm(cfg config.Config) *settingsForm {
	p := cfg.Active()
	return &settingsForm{
		menu: menu.New("Settings",
			menu.Action("Refresh Interval", fieldInterval),
			menu.Action("Theme", fieldTheme),
			menu.Action("Show Clock", fieldClock),
			menu.Action("Categories", fieldCategories),
			menu.Action("Blocked Domains", fieldBlocked),
			menu.Action("Mute Keywords", fieldMute),
			menu.Action("Highlight Keywords", fieldHighlight),
			menu.Action("Media Player", fieldPlayer),
			menu.Separator[settingField](),
			menu.Action("Export Bookmarks to HTML", fieldExportBookmarks),
			menu.Action("Export Full Backup", fieldBackup),
			menu.Action("Import from Backup", fieldImport),
		),
		interval: cfg.General.FetchIntervalSeconds,
		theme:    cfg.General.Theme,
		clock:    cfg.General.ShowClock,
		text: map[settingField]string{
			fieldCategories: p.Categories,
			fieldBlocked:    strings.Join(cfg.General.BlockedDomains, ", "),
			fieldMute:       strings.Join(p.MuteKeywords, ", "),
			fieldHighlight:  strings.Join(p.HighlightKeywords, ", "),
			fieldPlayer:     cfg.General.MediaPlayer,
		},
	}
}

func (f *settingsForm) selected() settingField {
	it, ok := f.menu.Selected()
	if !ok {
		return -1
	}
	return it.Action
}

func (f *settingsForm) display(field settingField) string {
	switch field {
	case fieldInterval:
		return fmt.Sprintf("%ds", f.interval)
	case fieldTheme:
		return f.theme
	case fieldClock:
		if f.clock {
			return "On"
		}
		return "Off"
	}
	return f.text[field]
}

// adjust steps a numeric or enumerated field.
func (f *settingsForm) adjust(field settingField, dir int) bool {
	switch field {
	case fieldInterval:
		next := max(config.MinIntervalSecs, f.interval+dir*config.IntervalStepSecs)
		if next == f.interval {
			return false
		}
		f.interval = next
	case fieldTheme:
		f.theme = tuitheme.Cycle(f.theme, dir)
	case fieldClock:
		f.clock = !f.clock
	default:
		return false
	}
	return true
}

func (m Model) updateSettings(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := m.settings
	field := f.selected()
	switch msg.Type {
	case tea.KeyUp:
		f.menu.Move(-1)
		return m, nil
	case tea.KeyDown:
		f.menu.Move(1)
		return m, nil
	case tea.KeyLeft, tea.KeyRight:
		dir := 1
		if msg.Type == tea.KeyLeft {
			dir = -1
		}
		if f.adjust(field, dir) && field == fieldTheme {
			m.theme = tuitheme.ByName(f.theme)
		}
		return m, nil
	case tea.KeyEsc:
		cmd := m.commitSettings()
		return m, cmd
	case tea.KeyEnter:
		return m.runSettingsAction(field)
	case tea.KeyBackspace:
		if field.editable() {
			if r := []rune(f.text[field]); len(r) > 0 {
				f.text[field] = string(r[:len(r)-1])
			}
		}
		return m, nil
	case tea.KeySpace:
		if field.editable() {
			f.text[field] += " "
		}
		return m, nil
	case tea.KeyRunes:
		if field.editable() {
			f.text[field] += string(msg.Runes)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) runSettingsAction(field settingField) (Model, tea.Cmd) {
	switch field {
	case fieldClock:
		m.settings.adjust(field, 1)
	case fieldExportBookmarks:
		if m.service == nil {
			return m, nil
		}
		cmd := tea.Batch(m.setStatus("Exporting bookmarks..."), actions.ExportBookmarksCmd(m.service, m.cfg.BackupsDir()))
		return m, cmd
	case fieldBackup:
		if m.service == nil {
			return m, nil
		}
		cmd := tea.Batch(m.setStatus("Writing backup..."), actions.BackupCmd(m.service, m.cfg.BackupsDir()))
		return m, cmd
	case fieldImport:
		m.screen = ScreenImport
		dir := m.cfg.BackupsDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			cmd := m.setStatus(fmt.Sprintf("Could not create %s: %v", dir, err))
			return m, cmd
		}
		return m, actions.OpenPathCmd(dir, m.openPathFn)
	}
	return m, nil
}

func (m Model) updateImport(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Enter) {
		if m.settings != nil {
			m.screen = ScreenSettings
		} else {
			m.screen = ScreenList
		}
	}
	return m, nil
}

// commitSettings writes every pending value into the config, pushes the
// fetcher-facing ones into the shared state and rebuilds the view. On error
// the form stays open.
func (m *Model) commitSettings() tea.Cmd {
	f := m.settings
	if f == nil {
		m.screen = ScreenList
		return nil
	}

	cfg := m.cfg.Clone()
	cfg.General.FetchIntervalSeconds = max(config.MinIntervalSecs, f.interval)
	cfg.General.Theme = f.theme
	cfg.General.ShowClock = f.clock
	cfg.General.BlockedDomains = lowerAll(config.SplitList(f.text[fieldBlocked]))
	if player := strings.TrimSpace(f.text[fieldPlayer]); player != "" {
		cfg.General.MediaPlayer = player
	} else {
		cfg.General.MediaPlayer = config.DefaultMediaPlayer
	}

	p := cfg.Active()
	if categories := strings.TrimSpace(f.text[fieldCategories]); categories != "" {
		p.Categories = categories
	}
	p.MuteKeywords = config.SplitList(f.text[fieldMute])
	p.HighlightKeywords = config.SplitList(f.text[fieldHighlight])
	if err := cfg.UpdateProfile(p); err != nil {
		// The form stays open so the pending edits survive.
		return m.setStatus("Could not apply settings: " + err.Error())
	}
	m.settings = nil
	m.screen = ScreenList

	blockedChanged := !slices.Equal(cfg.General.BlockedDomains, m.cfg.General.BlockedDomains)
	m.cfg = cfg
	m.theme = tuitheme.ByName(cfg.General.Theme)
	if !cfg.General.ShowClock {
		m.clock = ""
	}
	if m.shared != nil {
		m.shared.SetInterval(cfg.Interval())
		m.shared.SetCategory(p.Categories)
		m.shared.SetBlockedDomains(cfg.General.BlockedDomains)
	}
	if blockedChanged {
		m.reloadItems()
	} else {
		m.regenerate = true
	}

	if cmd := m.saveConfig(cfg); cmd != nil {
		return cmd
	}
	return m.setStatus("Settings saved")
}

func lowerAll(xs []string) []string {
	for i, x := range xs {
		xs[i] = strings.ToLower(x)
	}
	return xs
}

func (m Model) settingsPopup() string {
	f := m.settings
	w, _ := m.screenSize()
	width := min(w-4, 70)
	inner := width - 2
	lines := make([]string, 0, len(f.menu.Items)+2)
	for i, it := range f.menu.Items {
		if it.Kind == menu.KindSeparator {
			lines = append(lines, m.theme.Separator.Render(view.Rule(inner)))
			continue
		}
		value := ""
		if it.Action < fieldExportBookmarks {
			value = f.display(it.Action)
			if i == f.menu.Cursor && it.Action.editable() {
				value += "_"
			}
		}
		row := fmt.Sprintf("%-20s %s", it.Label, value)
		if i == f.menu.Cursor {
			lines = append(lines, m.theme.Highlight.Render(view.PadRight("> "+row, inner)))
			continue
		}
		lines = append(lines, "  "+row)
	}
	lines = append(lines, "", m.theme.Dim.Render("↑/↓ select  ←/→ change  type to edit  esc: save"))
	return view.Box("Settings", lines, width, m.theme)
}

func (m Model) importPopup() string {
	w, _ := m.screenSize()
	width := min(w-4, 70)
	lines := []string{
		"To restore a backup:",
		"",
		"  1. Quit Alien News Feed.",
		"  2. Run: alienfeed import <backup.db>",
		"",
		"Backups are stored in:",
		"  " + m.cfg.BackupsDir(),
		"",
		m.theme.Dim.Render("esc: back"),
	}
	return view.Box("Import from Backup", lines, width, m.theme)
}
