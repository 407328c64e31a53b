package doctree

// Kind identifies the variant of a Node.
type Kind string

const (
	KindRoot      Kind = "root"
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindList      Kind = "list"
	KindListItem  Kind = "listItem"
	KindLink      Kind = "link"
	KindImage     Kind = "image"
	KindHTML      Kind = "html"
	KindText      Kind = "text"
)

// Node is one node of a parsed Markdown document. Which fields carry
// meaning depends on Kind: headings have Depth, links and images have URL,
// text and html nodes have Value. Children is always document order;
// extractors rely on sibling order to decide where a section ends. Trees
// are never mutated after parsing.
type Node struct {
	Kind     Kind
	Depth    int    // heading level 1..6
	URL      string // link destination or image source
	Alt      string // image alt text
	Value    string // text content or raw html
	Children []*Node
}

// LinkRef is a link lifted out of the tree along with whatever surrounding
// prose sat next to it.
type LinkRef struct {
	URL         string
	Title       string
	Description string
}
