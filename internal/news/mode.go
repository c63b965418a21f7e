package news

// Mode is the top-level view filter.
type Mode int

const (
	ModeAll Mode = iota
	ModeUnseen
	ModeBookmarks
	ModeRead
	ModeHighlights
	ModeVideo
)

var Modes = []Mode{ModeAll, ModeUnseen, ModeBookmarks, ModeRead, ModeHighlights, ModeVideo}

func (m Mode) String() string {
	switch m {
	case ModeUnseen:
		return "Unseen"
	case ModeBookmarks:
		return "Bookmarks"
	case ModeRead:
		return "Read"
	case ModeHighlights:
		return "Highlights"
	case ModeVideo:
		return "Video"
	default:
		return "All"
	}
}
