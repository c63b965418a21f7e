// Package menu holds ordered popup menus built from tagged rows.
package menu

type Kind int

const (
	KindAction Kind = iota
	KindSeparator
)

// Item is one menu row. Separators carry no action and are never selectable.
type Item[A comparable] struct {
	Kind    Kind
	Label   string
	Action  A
	Enabled func() bool
}

func Action[A comparable](label string, action A) Item[A] {
	return Item[A]{Kind: KindAction, Label: label, Action: action}
}

// When returns a copy of the row that is only selectable while enabled reports true.
func (it Item[A]) When(enabled func() bool) Item[A] {
	it.Enabled = enabled
	return it
}

func Separator[A comparable]() Item[A] {
	return Item[A]{Kind: KindSeparator}
}

func (it Item[A]) Selectable() bool {
	if it.Kind != KindAction {
		return false
	}
	return it.Enabled == nil || it.Enabled()
}

type Menu[A comparable] struct {
	Title  string
	Items  []Item[A]
	Cursor int
}

// New places the cursor on the first selectable row.
func New[A comparable](title string, items ...Item[A]) *Menu[A] {
	m := &Menu[A]{Title: title, Items: items, Cursor: -1}
	for i, it := range items {
		if it.Selectable() {
			m.Cursor = i
			break
		}
	}
	return m
}

// Move steps to the next selectable row in the given direction, stopping at the ends.
func (m *Menu[A]) Move(delta int) bool {
	if m == nil || delta == 0 {
		return false
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	moved := false
	for n := 0; n < abs(delta); n++ {
		next := -1
		for i := m.Cursor + step; i >= 0 && i < len(m.Items); i += step {
			if m.Items[i].Selectable() {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		m.Cursor = next
		moved = true
	}
	return moved
}

// Select moves the cursor onto the row carrying action, if it is selectable.
func (m *Menu[A]) Select(action A) bool {
	for i, it := range m.Items {
		if it.Kind == KindAction && it.Action == action && it.Selectable() {
			m.Cursor = i
			return true
		}
	}
	return false
}

// Selected returns the row under the cursor. ok is false when nothing is selectable.
func (m *Menu[A]) Selected() (Item[A], bool) {
	if m == nil || m.Cursor < 0 || m.Cursor >= len(m.Items) {
		return Item[A]{}, false
	}
	it := m.Items[m.Cursor]
	if !it.Selectable() {
		return Item[A]{}, false
	}
	return it, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
