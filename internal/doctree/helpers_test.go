package doctree

import (
	"strings"
	"testing"
)

func text(v string) *Node { return &Node{Kind: KindText, Value: v} }

func heading(d int, title string) *Node {
	return &Node{Kind: KindHeading, Depth: d, Children: []*Node{text(title)}}
}

func para(children ...*Node) *Node { return &Node{Kind: KindParagraph, Children: children} }

func link(url, label string) *Node {
	return &Node{Kind: KindLink, URL: url, Children: []*Node{text(label)}}
}

func TestFlattenText(t *testing.T) {
	n := para(text("see "), link("https://example.com", "the docs"), text(" for more"))
	got := FlattenText(n)
	if got != "see the docs for more" {
		t.Errorf("unexpected flatten result: %q", got)
	}

	if FlattenText(nil) != "" {
		t.Error("nil node should flatten to empty string")
	}
	if FlattenText(&Node{Kind: KindParagraph}) != "" {
		t.Error("childless paragraph should flatten to empty string")
	}
}

func TestFirstLinkInParagraph(t *testing.T) {
	p := para(text("Please see "), link("https://example.com/docs", "Docs"), text(" for details."))
	ref := FirstLinkInParagraph(p)
	if ref == nil {
		t.Fatal("expected a link")
	}
	if ref.URL != "https://example.com/docs" {
		t.Errorf("url: %q", ref.URL)
	}
	if ref.Title != "Docs" {
		t.Errorf("title: %q", ref.Title)
	}
	if !strings.Contains(ref.Description, "Please see") || !strings.Contains(ref.Description, "for details.") {
		t.Errorf("description should keep surrounding prose: %q", ref.Description)
	}

	if FirstLinkInParagraph(para(text("no link here"))) != nil {
		t.Error("paragraph without link should return nil")
	}
	if FirstLinkInParagraph(nil) != nil {
		t.Error("nil paragraph should return nil")
	}
}

func TestFirstLinkInListItem(t *testing.T) {
	li := &Node{Kind: KindListItem, Children: []*Node{
		para(link("https://example.com/coverage", "Test Coverage")),
	}}
	ref := FirstLinkInListItem(li)
	if ref == nil {
		t.Fatal("expected a link")
	}
	if ref.URL != "https://example.com/coverage" || ref.Title != "Test Coverage" {
		t.Errorf("unexpected ref: %+v", ref)
	}

	direct := &Node{Kind: KindListItem, Children: []*Node{link("u", "l")}}
	if ref := FirstLinkInListItem(direct); ref == nil || ref.URL != "u" {
		t.Errorf("direct link child should be found: %+v", ref)
	}

	if FirstLinkInListItem(&Node{Kind: KindListItem}) != nil {
		t.Error("empty list item should return nil")
	}
}

func TestSectionAfterDepthScoping(t *testing.T) {
	// # A / ## B / content / ## C: scoping under B must exclude C's content.
	root := &Node{Kind: KindRoot, Children: []*Node{
		heading(1, "A"),
		heading(2, "B"),
		para(text("b content")),
		heading(2, "C"),
		para(text("c content")),
	}}

	section := SectionAfter(root, func(h *Node) bool {
		return strings.Contains(FlattenText(h), "B")
	})
	if len(section) != 1 {
		t.Fatalf("expected 1 node in section, got %d", len(section))
	}
	if got := FlattenText(section[0]); got != "b content" {
		t.Errorf("section content: %q", got)
	}
}

func TestSectionAfterDeeperHeadingsIncluded(t *testing.T) {
	root := &Node{Kind: KindRoot, Children: []*Node{
		heading(2, "Docs"),
		para(text("intro")),
		heading(3, "Sub"),
		para(text("sub content")),
		heading(2, "Next"),
		para(text("next content")),
	}}

	section := SectionAfter(root, func(h *Node) bool {
		return FlattenText(h) == "Docs"
	})
	if len(section) != 3 {
		t.Fatalf("expected 3 nodes (intro, sub heading, sub content), got %d", len(section))
	}
	for _, n := range section {
		if strings.Contains(FlattenText(n), "next content") {
			t.Error("section must not leak past the next equal-depth heading")
		}
	}
}

func TestSectionAfterNoMatch(t *testing.T) {
	root := &Node{Kind: KindRoot, Children: []*Node{heading(1, "A"), para(text("x"))}}
	if s := SectionAfter(root, func(*Node) bool { return false }); s != nil {
		t.Errorf("expected nil for unmatched heading, got %d nodes", len(s))
	}
	if s := SectionAfter(nil, func(*Node) bool { return true }); s != nil {
		t.Error("nil root should return nil")
	}
}

func TestSectionAfterMatchedHeadingAtEnd(t *testing.T) {
	root := &Node{Kind: KindRoot, Children: []*Node{heading(2, "Tech Stack")}}
	s := SectionAfter(root, func(h *Node) bool { return FlattenText(h) == "Tech Stack" })
	if len(s) != 0 {
		t.Errorf("trailing heading should produce empty section, got %d nodes", len(s))
	}
}
