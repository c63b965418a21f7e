package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/alienfeed/internal/config"
	tuistate "github.com/glabrego/alienfeed/internal/tui/state"
	"github.com/glabrego/alienfeed/internal/tui/view"
)

type profileManager struct {
	cursor int
	naming bool
	input  string
	err    string
}

func newProfileManager(cfg config.Config) profileManager {
	return profileManager{cursor: max(0, cfg.ProfileIndex(cfg.ActiveProfile))}
}

func (m Model) updateProfiles(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.profiles.naming {
		return m.updateProfileName(msg)
	}
	pm := &m.profiles
	switch {
	case key.Matches(msg, m.keys.Up):
		pm.cursor = tuistate.ClampCursor(pm.cursor-1, len(m.cfg.Profiles))
	case key.Matches(msg, m.keys.Down):
		pm.cursor = tuistate.ClampCursor(pm.cursor+1, len(m.cfg.Profiles))
	case key.Matches(msg, m.keys.NewProfile):
		pm.naming = true
		pm.input = ""
		pm.err = ""
	case key.Matches(msg, m.keys.DeleteProfile):
		name := m.cfg.Profiles[pm.cursor].Name
		cfg := m.cfg.Clone()
		if err := cfg.DeleteProfile(name); err != nil {
			pm.err = err.Error()
			return m, nil
		}
		m.cfg = cfg
		pm.err = ""
		pm.cursor = tuistate.ClampCursor(pm.cursor, len(cfg.Profiles))
		cmd := m.saveConfig(cfg)
		return m, cmd
	case key.Matches(msg, m.keys.Enter):
		return m.switchProfile(m.cfg.Profiles[pm.cursor].Name)
	case key.Matches(msg, m.keys.Back):
		m.profiles = profileManager{}
		m.screen = ScreenList
	}
	return m, nil
}

func (m Model) updateProfileName(msg tea.KeyMsg) (Model, tea.Cmd) {
	pm := &m.profiles
	switch msg.Type {
	case tea.KeyEsc:
		pm.naming = false
		pm.input = ""
		pm.err = ""
	case tea.KeyBackspace:
		if r := []rune(pm.input); len(r) > 0 {
			pm.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		pm.input += " "
	case tea.KeyRunes:
		pm.input += string(msg.Runes)
	case tea.KeyEnter:
		cfg := m.cfg.Clone()
		p, err := cfg.AddProfile(pm.input)
		if err != nil {
			pm.err = err.Error()
			return m, nil
		}
		m.cfg = cfg
		pm.naming = false
		pm.input = ""
		pm.err = ""
		pm.cursor = cfg.ProfileIndex(p.Name)
		cmd := m.saveConfig(cfg)
		return m, cmd
	}
	return m, nil
}

// switchProfile persists the selection and ends the program so the caller can
// rebuild the runtime against the profile's own store.
func (m Model) switchProfile(name string) (Model, tea.Cmd) {
	if strings.EqualFold(name, m.cfg.ActiveProfile) {
		m.profiles = profileManager{}
		m.screen = ScreenList
		return m, nil
	}
	cfg := m.cfg.Clone()
	if err := cfg.SelectProfile(name); err != nil {
		m.profiles.err = err.Error()
		return m, nil
	}
	if m.saveConfigFn != nil {
		if err := m.saveConfigFn(cfg); err != nil {
			m.profiles.err = "Could not save profile selection: " + err.Error()
			return m, nil
		}
	}
	m.cfg = cfg
	m.nextProfile = cfg.ActiveProfile
	return m, tea.Quit
}

func (m Model) profilesPopup() string {
	w, _ := m.screenSize()
	width := min(w-4, 60)
	inner := width - 2
	pm := m.profiles
	lines := make([]string, 0, len(m.cfg.Profiles)+5)
	for i, p := range m.cfg.Profiles {
		marker := "  "
		if strings.EqualFold(p.Name, m.cfg.ActiveProfile) {
			marker = "* "
		}
		row := marker + p.Name + "  " + m.theme.Dim.Render(p.Database)
		if i == pm.cursor && !pm.naming {
			row = m.theme.Highlight.Render(view.PadRight(marker+p.Name+"  "+p.Database, inner))
		}
		lines = append(lines, row)
	}
	lines = append(lines, "")
	if pm.naming {
		lines = append(lines, "New profile name: "+pm.input+"_")
	}
	if pm.err != "" {
		lines = append(lines, m.theme.StateWarn.Render(pm.err))
	}
	hint := "enter: switch  n: new  d: delete  esc: close"
	if pm.naming {
		hint = "enter: create  esc: cancel"
	}
	lines = append(lines, m.theme.Dim.Render(hint))
	return view.Box("Profiles", lines, width, m.theme)
}
