package doctree

import "strings"

// FlattenText concatenates all descendant text node values in document
// order. Used for heading-title matching and link descriptions.
func FlattenText(n *Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	flatten(n, &sb)
	return sb.String()
}

func flatten(n *Node, sb *strings.Builder) {
	if n.Kind == KindText {
		sb.WriteString(n.Value)
	}
	for _, c := range n.Children {
		flatten(c, sb)
	}
}

// FirstLinkInParagraph scans a paragraph's direct children for the first
// link node. The description is the concatenation of the paragraph's plain
// text siblings, i.e. the prose around the link. Returns nil if the node
// has no direct link child.
func FirstLinkInParagraph(p *Node) *LinkRef {
	if p == nil {
		return nil
	}
	var link *Node
	var desc strings.Builder
	for _, c := range p.Children {
		switch c.Kind {
		case KindLink:
			if link == nil {
				link = c
			}
		case KindText:
			desc.WriteString(c.Value)
		}
	}
	if link == nil {
		return nil
	}
	return &LinkRef{
		URL:         link.URL,
		Title:       strings.TrimSpace(FlattenText(link)),
		Description: strings.TrimSpace(desc.String()),
	}
}

// FirstLinkInListItem finds the first link nested in a list item, looking
// at direct link children and inside nested paragraphs.
func FirstLinkInListItem(li *Node) *LinkRef {
	if li == nil {
		return nil
	}
	for _, c := range li.Children {
		switch c.Kind {
		case KindLink:
			return &LinkRef{URL: c.URL, Title: strings.TrimSpace(FlattenText(c))}
		case KindParagraph:
			if ref := FirstLinkInParagraph(c); ref != nil {
				return &LinkRef{URL: ref.URL, Title: ref.Title}
			}
		}
	}
	return nil
}

// SectionAfter returns the ordered slice of root's children strictly after
// the first heading for which match returns true, stopping before the next
// heading whose depth is less than or equal to the matched heading's depth.
// This depth-scoping rule is what "belongs to this section" means for every
// extractor. Returns nil if no heading matches.
func SectionAfter(root *Node, match func(h *Node) bool) []*Node {
	if root == nil {
		return nil
	}
	depth := -1
	var section []*Node
	for _, c := range root.Children {
		if depth < 0 {
			if c.Kind == KindHeading && match(c) {
				depth = c.Depth
			}
			continue
		}
		if c.Kind == KindHeading && c.Depth <= depth {
			break
		}
		section = append(section, c)
	}
	if depth < 0 {
		return nil
	}
	return section
}

// Walk visits n and every descendant in document order. The visitor
// returns false to skip a node's children; siblings are still visited.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}
