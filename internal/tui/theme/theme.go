package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/alienfeed/internal/news"
)

const DefaultName = "Default"

type palette struct {
	highlightBG, highlightFG lipgloss.Color
	barBG, barFG             lipgloss.Color
	popupBG, popupFG         lipgloss.Color
	newFG                    lipgloss.Color
}

var palettes = []struct {
	name string
	p    palette
}{
	{DefaultName, palette{"7", "0", "235", "15", "236", "15", "11"}},
	{"Solarized Dark", palette{"22", "228", "234", "248", "235", "250", "136"}},
	{"Nord", palette{"24", "229", "236", "111", "237", "252", "215"}},
	{"Gruvbox Dark", palette{"131", "229", "235", "248", "236", "250", "214"}},
	{"Monokai", palette{"197", "233", "234", "148", "235", "252", "118"}},
	{"Dracula+", palette{"98", "231", "235", "117", "236", "252", "208"}},
	{"Cyberpunk", palette{"208", "16", "17", "228", "18", "252", "198"}},
}

type Theme struct {
	Name string

	Bar         lipgloss.Style
	Highlight   lipgloss.Style
	Popup       lipgloss.Style
	PopupBorder lipgloss.Color
	PopupTitle  lipgloss.Style
	Separator   lipgloss.Style
	Disabled    lipgloss.Style

	TitleNew         lipgloss.Style
	TitleRead        lipgloss.Style
	TitleHighlighted lipgloss.Style
	Category         lipgloss.Style
	Domain           lipgloss.Style
	Age              lipgloss.Style

	StateOK   lipgloss.Style
	StateWarn lipgloss.Style
	Key       lipgloss.Style
	Section   lipgloss.Style
	Author    lipgloss.Style
	Quote     lipgloss.Style
	Link      lipgloss.Style
	Dim       lipgloss.Style
}

func Names() []string {
	out := make([]string, len(palettes))
	for i, p := range palettes {
		out[i] = p.name
	}
	return out
}

func Default() Theme {
	return ByName(DefaultName)
}

// ByName returns the named theme, falling back to the default one.
func ByName(name string) Theme {
	p := palettes[0]
	for _, candidate := range palettes {
		if candidate.name == name {
			p = candidate
			break
		}
	}
	return build(p.name, p.p)
}

// Cycle returns the theme name delta steps away from name, wrapping around.
func Cycle(name string, delta int) string {
	idx := 0
	for i, p := range palettes {
		if p.name == name {
			idx = i
			break
		}
	}
	n := len(palettes)
	idx = ((idx+delta)%n + n) % n
	return palettes[idx].name
}

func build(name string, p palette) Theme {
	popup := lipgloss.NewStyle().Background(p.popupBG).Foreground(p.popupFG)
	return Theme{
		Name:        name,
		Bar:         lipgloss.NewStyle().Background(p.barBG).Foreground(p.barFG),
		Highlight:   lipgloss.NewStyle().Background(p.highlightBG).Foreground(p.highlightFG),
		Popup:       popup,
		PopupBorder: p.highlightBG,
		PopupTitle:  popup.Bold(true),
		Separator:   popup.Faint(true),
		Disabled:    popup.Foreground(lipgloss.Color("244")),

		TitleNew:         lipgloss.NewStyle().Foreground(p.newFG),
		TitleRead:        lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
		TitleHighlighted: lipgloss.NewStyle().Bold(true),
		Category:         lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Domain:           lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Age:              lipgloss.NewStyle(),

		StateOK:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		StateWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Key:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Section:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Author:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Quote:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Faint(true),
	}
}

// StyleItemTitle colors a title by item state: new first, then read.
func (t Theme) StyleItemTitle(item news.Item, highlighted bool, title string) string {
	if title == "" {
		return title
	}
	style := lipgloss.NewStyle()
	switch {
	case item.IsNew:
		style = t.TitleNew
	case item.IsRead:
		style = t.TitleRead
	}
	if highlighted {
		style = style.Inherit(t.TitleHighlighted)
	}
	return style.Render(title)
}
