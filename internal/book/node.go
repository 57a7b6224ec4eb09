package book

// Kind identifies what a structure node represents.
type Kind string

const (
	KindRoot       Kind = "root"
	KindPart       Kind = "part"
	KindChapter    Kind = "chapter"
	KindSection    Kind = "section"
	KindSubsection Kind = "subsection"
	KindBlock      Kind = "block"
)

// Node is one element of the structure tree: a part, chapter, section,
// subsection, or a leaf content block. Children are owned exclusively by
// their parent; there are no back-references.
type Node struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title,omitempty"`

	// Number is the captured chapter number (arabic). For parts it is the
	// decoded value of Roman, which preserves the source spelling.
	Number int    `json:"number,omitempty"`
	Roman  string `json:"roman,omitempty"`

	Children []*Node `json:"children,omitempty"`
	Block    *Block  `json:"block,omitempty"`
}

// AddChild appends a child node.
func (n *Node) AddChild(c *Node) {
	n.Children = append(n.Children, c)
}

// Walk visits n and every descendant in document order. Returning false
// from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Chapters returns all chapter nodes in document order, descending into
// parts.
func (n *Node) Chapters() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind == KindChapter {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Blocks returns all leaf blocks in document order.
func (n *Node) Blocks() []*Block {
	var out []*Block
	n.Walk(func(c *Node) bool {
		if c.Kind == KindBlock && c.Block != nil {
			out = append(out, c.Block)
		}
		return true
	})
	return out
}

// Warning codes reported by the structure builder.
const (
	WarnChapterRegression = "chapter_number_regression"
	WarnPartRegression    = "part_number_regression"
	WarnImplicitChapter   = "implicit_chapter"
	WarnNoChapters        = "no_chapters_detected"
)

// Warning is a non-fatal structural advisory recorded alongside the tree.
// The tree is still complete and usable when warnings are present.
type Warning struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Page   int    `json:"page"`
}
