package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/repometa/internal/doctree"
)

const sampleReadme = `# my-project

A small tool that does one thing well.

![badge](https://img.shields.io/badge/build-passing-brightgreen.svg)

## Screenshots

![screenshot](./assets/imgs/project-image.png)

## Tech Stack

- Node.js
- Express
- PostgreSQL

Also: Redis, Docker, Kubernetes

## Documentation

Please see [Docs](https://example.com/docs) for details.
`

func kinds(nodes []*doctree.Node) []doctree.Kind {
	out := make([]doctree.Kind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind
	}
	return out
}

func TestParseEmptyInput(t *testing.T) {
	for _, full := range []bool{true, false} {
		p := New(full)
		if p.Parse("") != nil {
			t.Errorf("full=%v: empty input should return nil", full)
		}
		if p.Parse("   \n\t\n") != nil {
			t.Errorf("full=%v: whitespace input should return nil", full)
		}
	}
}

func TestParseHeadingsAndDepth(t *testing.T) {
	for _, full := range []bool{true, false} {
		root := New(full).Parse("# One\n\n## Two\n\n### Three\n")
		if root == nil {
			t.Fatalf("full=%v: nil root", full)
		}
		var depths []int
		for _, c := range root.Children {
			if c.Kind != doctree.KindHeading {
				t.Errorf("full=%v: unexpected kind %s", full, c.Kind)
			}
			depths = append(depths, c.Depth)
		}
		if len(depths) != 3 || depths[0] != 1 || depths[1] != 2 || depths[2] != 3 {
			t.Errorf("full=%v: depths %v", full, depths)
		}
	}
}

func TestParseLinksAndImages(t *testing.T) {
	input := "See [Docs](https://example.com/docs) and ![shot](./img/shot.png) here.\n"
	for _, full := range []bool{true, false} {
		root := New(full).Parse(input)
		if root == nil || len(root.Children) != 1 {
			t.Fatalf("full=%v: expected one paragraph", full)
		}
		p := root.Children[0]
		if p.Kind != doctree.KindParagraph {
			t.Fatalf("full=%v: kind %s", full, p.Kind)
		}

		var linkURL, imgURL string
		doctree.Walk(p, func(n *doctree.Node) bool {
			switch n.Kind {
			case doctree.KindLink:
				linkURL = n.URL
			case doctree.KindImage:
				imgURL = n.URL
			}
			return true
		})
		if linkURL != "https://example.com/docs" {
			t.Errorf("full=%v: link url %q", full, linkURL)
		}
		if imgURL != "./img/shot.png" {
			t.Errorf("full=%v: image url %q", full, imgURL)
		}
	}
}

func TestParseInlineHTMLImage(t *testing.T) {
	input := `<img src="./assets/img/demo.png" alt="demo">` + "\n"
	for _, full := range []bool{true, false} {
		root := New(full).Parse(input)
		if root == nil {
			t.Fatalf("full=%v: nil root", full)
		}
		found := false
		doctree.Walk(root, func(n *doctree.Node) bool {
			if n.Kind == doctree.KindHTML && strings.Contains(n.Value, "demo.png") {
				found = true
				return false
			}
			return true
		})
		if !found {
			t.Errorf("full=%v: html img node not found", full)
		}
	}
}

func TestParseListBlock(t *testing.T) {
	input := "## Tech Stack\n\n- Node.js\n- Express\n- PostgreSQL\n"
	for _, full := range []bool{true, false} {
		root := New(full).Parse(input)
		if root == nil || len(root.Children) != 2 {
			t.Fatalf("full=%v: expected heading+list, got %v", full, kinds(root.Children))
		}
		list := root.Children[1]
		if list.Kind != doctree.KindList {
			t.Fatalf("full=%v: kind %s", full, list.Kind)
		}
		if len(list.Children) != 3 {
			t.Fatalf("full=%v: expected 3 items, got %d", full, len(list.Children))
		}
		for i, want := range []string{"Node.js", "Express", "PostgreSQL"} {
			li := list.Children[i]
			if li.Kind != doctree.KindListItem {
				t.Errorf("full=%v: item kind %s", full, li.Kind)
			}
			if got := strings.TrimSpace(doctree.FlattenText(li)); got != want {
				t.Errorf("full=%v: item %d = %q, want %q", full, i, got, want)
			}
		}
	}
}

func TestParseParagraphBreaks(t *testing.T) {
	input := "First paragraph.\n\nSecond paragraph\nstill second.\n"
	for _, full := range []bool{true, false} {
		root := New(full).Parse(input)
		if root == nil || len(root.Children) != 2 {
			t.Fatalf("full=%v: expected 2 paragraphs, got %v", full, kinds(root.Children))
		}
		second := doctree.FlattenText(root.Children[1])
		if !strings.Contains(second, "Second paragraph") || !strings.Contains(second, "still second.") {
			t.Errorf("full=%v: second paragraph %q", full, second)
		}
	}
}

// The fallback builder must produce the same section structure as goldmark
// for a realistic README, so extractors behave identically on both.
func TestFallbackShapeMatchesFull(t *testing.T) {
	full := New(true).Parse(sampleReadme)
	simple := New(false).Parse(sampleReadme)
	if full == nil || simple == nil {
		t.Fatal("nil root")
	}

	fullKinds := kinds(full.Children)
	simpleKinds := kinds(simple.Children)
	if len(fullKinds) != len(simpleKinds) {
		t.Fatalf("child counts differ: full=%v simple=%v", fullKinds, simpleKinds)
	}
	for i := range fullKinds {
		if fullKinds[i] != simpleKinds[i] {
			t.Errorf("child %d: full=%s simple=%s", i, fullKinds[i], simpleKinds[i])
		}
	}
}

func TestParseLinkTitleStripped(t *testing.T) {
	root := New(false).Parse(`[Docs](https://example.com/docs "the docs")`)
	var url string
	doctree.Walk(root, func(n *doctree.Node) bool {
		if n.Kind == doctree.KindLink {
			url = n.URL
			return false
		}
		return true
	})
	if url != "https://example.com/docs" {
		t.Errorf("link title should be stripped from destination: %q", url)
	}
}
