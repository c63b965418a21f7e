package comments

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/glabrego/alienfeed/internal/source"
)

func c(author string, replies ...source.Reply) source.Reply {
	return source.Reply{Kind: source.CommentKind, Author: author, Body: author + " says", Replies: replies}
}

func authors(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Author)
	}
	return out
}

func scenarioTree() []*Node {
	return Parse([]source.Reply{
		c("A", c("B"), c("C", c("D"))),
	}, 0)
}

func TestFlatten_CollapseScenario(t *testing.T) {
	roots := scenarioTree()

	if got := authors(Flatten(roots)); !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Fatalf("expected [A B C D], got %v", got)
	}

	a := roots[0]
	a.Collapsed = true
	if got := authors(Flatten(roots)); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("expected [A], got %v", got)
	}

	a.Collapsed = false
	a.Children[1].Collapsed = true
	if got := authors(Flatten(roots)); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Fatalf("expected [A B C], got %v", got)
	}
}

func TestFlatten_CollapseRemovesExactlyDescendants(t *testing.T) {
	roots := Parse([]source.Reply{
		c("r1", c("a", c("a1"), c("a2", c("a2x"))), c("b")),
		c("r2"),
		c("r3", c("x", c("y", c("z")))),
	}, 0)

	all := Flatten(roots)
	if len(all) != Count(roots) {
		t.Fatalf("expected every node once, got %d of %d", len(all), Count(roots))
	}
	seen := make(map[*Node]bool)
	for _, n := range all {
		if seen[n] {
			t.Fatalf("node %s visited twice", n.Author)
		}
		seen[n] = true
	}

	for _, n := range all {
		n.Collapsed = true
		got := len(Flatten(roots))
		if want := len(all) - n.Descendants(); got != want {
			t.Fatalf("collapsing %s: expected %d rows, got %d", n.Author, want, got)
		}
		n.Collapsed = false
	}
}

func TestParse_SkipsStubsAndSetsDepth(t *testing.T) {
	roots := Parse([]source.Reply{
		{Kind: source.MoreKind, Replies: []source.Reply{c("hidden")}},
		c("top", c("child", source.Reply{Kind: source.MoreKind})),
		{Kind: source.CommentKind},
	}, 0)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].Depth != 0 || roots[0].Children[0].Depth != 1 {
		t.Fatalf("unexpected depths: %d, %d", roots[0].Depth, roots[0].Children[0].Depth)
	}
	if len(roots[0].Children[0].Children) != 0 {
		t.Fatalf("expected stub reply to be skipped, got %+v", roots[0].Children[0].Children)
	}
	if roots[1].Author != "[deleted]" {
		t.Fatalf("expected placeholder author, got %q", roots[1].Author)
	}
}

func TestParse_BoundsDepth(t *testing.T) {
	deep := c("leaf")
	for i := 0; i < MaxDepth+20; i++ {
		deep = c("n", deep)
	}
	roots := Parse([]source.Reply{deep}, 0)
	maxSeen := 0
	for _, n := range Flatten(roots) {
		if n.Depth > maxSeen {
			maxSeen = n.Depth
		}
	}
	if maxSeen != MaxDepth-1 {
		t.Fatalf("expected max depth %d, got %d", MaxDepth-1, maxSeen)
	}
}

func TestThread_NavigationAndToggle(t *testing.T) {
	th := NewThread("/r/x/comments/1/", Parse([]source.Reply{
		c("A", c("B"), c("C", c("D"))),
		c("E"),
		c("F", c("G")),
	}, 0), "")

	if th.Move(-1) {
		t.Fatal("expected no movement above the first row")
	}
	th.Selected = 2
	if !th.NextTopLevel() || th.SelectedNode().Author != "E" {
		t.Fatalf("expected jump to E, got %s", th.SelectedNode().Author)
	}
	if !th.PrevTopLevel() || th.SelectedNode().Author != "A" {
		t.Fatalf("expected jump back to A, got %s", th.SelectedNode().Author)
	}
	if th.PrevTopLevel() {
		t.Fatal("expected no wraparound before the first top-level node")
	}
	th.Selected = th.Len() - 1
	if th.NextTopLevel() {
		t.Fatal("expected no wraparound after the last top-level node")
	}
	if th.Move(5) {
		t.Fatal("expected clamp at the end")
	}

	th.Selected = 0
	if !th.ToggleSelected() {
		t.Fatal("expected toggle on node with children")
	}
	if got := authors(th.Visible()); !reflect.DeepEqual(got, []string{"A", "E", "F", "G"}) {
		t.Fatalf("unexpected visible rows after collapse: %v", got)
	}
	th.Selected = 1
	if th.ToggleSelected() {
		t.Fatal("expected leaf toggle to be a no-op")
	}

	th.Selected = 0
	th.ToggleSelected()
	if th.Len() != 7 {
		t.Fatalf("expected 7 rows after expand, got %d", th.Len())
	}
}

func TestThread_CollapseClampsSelection(t *testing.T) {
	th := NewThread("x", Parse([]source.Reply{c("A", c("B"), c("C"))}, 0), "")
	th.Selected = 2
	th.Roots[0].Collapsed = true
	th.rebuild()
	if th.Selected != 0 {
		t.Fatalf("expected selection clamped to 0, got %d", th.Selected)
	}
}

type fakeReplies struct {
	replies []source.Reply
	err     error
}

func (f fakeReplies) FetchReplies(context.Context, string) ([]source.Reply, error) {
	return f.replies, f.err
}

func TestLoad_Statuses(t *testing.T) {
	ctx := context.Background()

	if th := Load(ctx, fakeReplies{}, ""); th.Status != StatusNoLink || th.Len() != 0 {
		t.Fatalf("unexpected no-link thread: %+v", th)
	}
	if th := Load(ctx, fakeReplies{err: errors.New("timeout")}, "/x"); th.Status != "Error: timeout" {
		t.Fatalf("unexpected error status: %q", th.Status)
	}
	if th := Load(ctx, fakeReplies{err: source.ErrNoReplies}, "/x"); th.Status != StatusNoComments {
		t.Fatalf("unexpected no-replies status: %q", th.Status)
	}
	if th := Load(ctx, fakeReplies{replies: []source.Reply{{Kind: source.MoreKind}}}, "/x"); th.Status != StatusEmpty {
		t.Fatalf("unexpected empty status: %q", th.Status)
	}
	th := Load(ctx, fakeReplies{replies: []source.Reply{c("A")}}, "/x")
	if th.Status != "" || th.Len() != 1 || th.SelectedNode().Author != "A" {
		t.Fatalf("unexpected loaded thread: %+v", th)
	}
}
