package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Back     key.Binding
	Quit     key.Binding
	Confirm  key.Binding

	Bookmark      key.Binding
	Comments      key.Binding
	BookmarksMode key.Binding
	Media         key.Binding
	Search        key.Binding
	Filter        key.Binding
	Settings      key.Binding
	Profiles      key.Binding
	Help          key.Binding
	Delete        key.Binding

	Links     key.Binding
	Copy      key.Binding
	Backspace key.Binding

	NewProfile    key.Binding
	DeleteProfile key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "left"), key.WithHelp("pgup/←", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "right"), key.WithHelp("pgdn/→", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first article")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last article")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "actions")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back / reset filter / quit")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit now")),
		Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),

		Bookmark:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "toggle bookmark")),
		Comments:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "view comments")),
		BookmarksMode: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "show bookmarks")),
		Media:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "play media")),
		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter menu")),
		Settings:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Profiles:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profiles")),
		Help:          key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h/?", "help")),
		Delete:        key.NewBinding(key.WithKeys("delete", "d"), key.WithHelp("del/d", "delete article")),

		Links:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "links in comment")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete character")),

		NewProfile:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new profile")),
		DeleteProfile: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete profile")),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End, k.Enter,
		k.Bookmark, k.Comments, k.BookmarksMode, k.Media, k.Search, k.Filter,
		k.Settings, k.Profiles, k.Delete, k.Help, k.Back, k.Quit,
	}
}

func (k keyMap) commentsHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down,
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "previous/next top-level comment")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "collapse/expand replies")),
		k.Links,
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
	}
}
