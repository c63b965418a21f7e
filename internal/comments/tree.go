package comments

import "github.com/glabrego/alienfeed/internal/source"

// MaxDepth bounds recursion over externally supplied reply data.
const MaxDepth = source.MaxReplyDepth

type Node struct {
	Author    string
	Score     int
	Body      string
	BodyHTML  string
	Depth     int
	Children  []*Node
	Collapsed bool
}

func (n *Node) HasChildren() bool { return n != nil && len(n.Children) > 0 }

// Descendants counts every node below n, collapsed or not.
func (n *Node) Descendants() int {
	if n == nil {
		return 0
	}
	total := 0
	for _, c := range n.Children {
		total += 1 + c.Descendants()
	}
	return total
}

// Parse builds nodes from replies. Non-comment entries (load-more stubs and
// the like) are skipped along with anything they contain.
func Parse(replies []source.Reply, depth int) []*Node {
	if depth >= MaxDepth || len(replies) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(replies))
	for _, r := range replies {
		if r.Kind != source.CommentKind {
			continue
		}
		author := r.Author
		if author == "" {
			author = "[deleted]"
		}
		out = append(out, &Node{
			Author:   author,
			Score:    r.Score,
			Body:     r.Body,
			BodyHTML: r.BodyHTML,
			Depth:    depth,
			Children: Parse(r.Replies, depth+1),
		})
	}
	return out
}

// Flatten lists nodes in pre-order, skipping the subtrees of collapsed nodes.
func Flatten(roots []*Node) []*Node {
	out := make([]*Node, 0, len(roots))
	return appendFlat(out, roots)
}

func appendFlat(out []*Node, nodes []*Node) []*Node {
	for _, n := range nodes {
		out = append(out, n)
		if !n.Collapsed && len(n.Children) > 0 {
			out = appendFlat(out, n.Children)
		}
	}
	return out
}

func Count(roots []*Node) int {
	total := 0
	for _, n := range roots {
		total += 1 + n.Descendants()
	}
	return total
}
