package menu

import "testing"

type act int

const (
	actOpen act = iota
	actCopy
	actPlay
	actDelete
)

func sample(playable bool) *Menu[act] {
	return New("Actions",
		Action("Open", actOpen),
		Separator[act](),
		Action("Copy", actCopy),
		Action("Play", actPlay).When(func() bool { return playable }),
		Separator[act](),
		Action("Delete", actDelete),
	)
}

func TestNewSelectsFirstSelectable(t *testing.T) {
	m := New("x", Separator[act](), Action("Copy", actCopy))
	if m.Cursor != 1 {
		t.Fatalf("expected cursor on first action, got %d", m.Cursor)
	}
	empty := New[act]("x", Separator[act]())
	if _, ok := empty.Selected(); ok {
		t.Fatal("expected nothing selectable")
	}
}

func TestMoveSkipsSeparatorsAndDisabledRows(t *testing.T) {
	m := sample(false)
	var got []act
	for {
		it, _ := m.Selected()
		got = append(got, it.Action)
		if !m.Move(1) {
			break
		}
	}
	want := []act{actOpen, actCopy, actDelete}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMoveClampsAtEnds(t *testing.T) {
	m := sample(true)
	if m.Move(-1) {
		t.Fatal("expected no movement above first row")
	}
	m.Move(10)
	it, _ := m.Selected()
	if it.Action != actDelete {
		t.Fatalf("expected last row, got %v", it.Action)
	}
	if m.Move(1) {
		t.Fatal("expected no movement past last row")
	}
}

func TestEnabledPredicateIsLive(t *testing.T) {
	playable := false
	m := New("Actions",
		Action("Copy", actCopy),
		Action("Play", actPlay).When(func() bool { return playable }),
	)
	if m.Select(actPlay) {
		t.Fatal("expected disabled row to be unselectable")
	}
	playable = true
	if !m.Select(actPlay) {
		t.Fatal("expected enabled row to be selectable")
	}
}
