package comments

import (
	"context"
	"errors"
	"strings"

	"github.com/glabrego/alienfeed/internal/source"
)

const (
	StatusLoading    = "Loading comments..."
	StatusEmpty      = "No comments found."
	StatusNoLink     = "Error: No permalink."
	StatusNoComments = "This source has no comments."
)

type RepliesFetcher interface {
	FetchReplies(ctx context.Context, detailLink string) ([]source.Reply, error)
}

// Thread is an open comment view: the tree, its flattened cache and the selection.
// The cache is rebuilt on every collapse toggle.
type Thread struct {
	Link     string
	Roots    []*Node
	Status   string
	Selected int
	Top      int

	flat []*Node
}

func NewThread(link string, roots []*Node, status string) *Thread {
	t := &Thread{Link: link, Roots: roots, Status: status}
	t.rebuild()
	return t
}

// Loading is the placeholder shown while replies are fetched.
func Loading(link string) *Thread {
	return NewThread(link, nil, StatusLoading)
}

// Load fetches and parses a thread. Failures become a status string; it never returns nil.
func Load(ctx context.Context, fetcher RepliesFetcher, link string) *Thread {
	if strings.TrimSpace(link) == "" {
		return NewThread(link, nil, StatusNoLink)
	}
	replies, err := fetcher.FetchReplies(ctx, link)
	if errors.Is(err, source.ErrNoReplies) {
		return NewThread(link, nil, StatusNoComments)
	}
	if err != nil {
		return NewThread(link, nil, "Error: "+err.Error())
	}
	roots := Parse(replies, 0)
	if len(roots) == 0 {
		return NewThread(link, nil, StatusEmpty)
	}
	return NewThread(link, roots, "")
}

func (t *Thread) rebuild() {
	t.flat = Flatten(t.Roots)
	t.Selected = clamp(t.Selected, len(t.flat))
}

func (t *Thread) Visible() []*Node { return t.flat }

func (t *Thread) Len() int { return len(t.flat) }

func (t *Thread) SelectedNode() *Node {
	if len(t.flat) == 0 {
		return nil
	}
	return t.flat[t.Selected]
}

// Move shifts the selection by delta, clamped to the flattened bounds.
func (t *Thread) Move(delta int) bool {
	next := clamp(t.Selected+delta, len(t.flat))
	if next == t.Selected {
		return false
	}
	t.Selected = next
	return true
}

// PrevTopLevel selects the nearest depth-0 node before the selection.
func (t *Thread) PrevTopLevel() bool {
	for i := t.Selected - 1; i >= 0; i-- {
		if t.flat[i].Depth == 0 {
			t.Selected = i
			return true
		}
	}
	return false
}

// NextTopLevel selects the nearest depth-0 node after the selection.
func (t *Thread) NextTopLevel() bool {
	for i := t.Selected + 1; i < len(t.flat); i++ {
		if t.flat[i].Depth == 0 {
			t.Selected = i
			return true
		}
	}
	return false
}

// ToggleSelected flips collapse on the selected node when it has children.
func (t *Thread) ToggleSelected() bool {
	n := t.SelectedNode()
	if !n.HasChildren() {
		return false
	}
	n.Collapsed = !n.Collapsed
	t.rebuild()
	return true
}

func clamp(i, size int) int {
	if size <= 0 || i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
