package parser

import (
	"regexp"
	"strings"

	"github.com/dgallion1/repometa/internal/doctree"
)

// The fallback builder is a deterministic line-oriented Markdown reader.
// It recognizes the subset of syntax READMEs use in practice: ATX
// headings, image and link syntax, inline <img> tags, bullet list blocks
// and blank-line paragraph breaks. Its output shape is a strict subset of
// the goldmark conversion for the same input.

var (
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletRe  = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	inlineRe  = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)|\[[^\]]*\]\([^)]*\)|<img[^>]*>`)
	imageRe   = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]*)\)$`)
	linkRe    = regexp.MustCompile(`^\[([^\]]*)\]\(([^)]*)\)$`)
)

func buildFallback(input string) *doctree.Node {
	root := &doctree.Node{Kind: doctree.KindRoot}

	var para []string
	var list *doctree.Node

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		joined := strings.TrimSpace(strings.Join(para, "\n"))
		para = nil
		if joined == "" {
			return
		}
		root.Children = append(root.Children, &doctree.Node{
			Kind:     doctree.KindParagraph,
			Children: parseInline(joined),
		})
	}
	flushList := func() {
		if list != nil {
			root.Children = append(root.Children, list)
			list = nil
		}
	}

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimRight(line, " \t\r")

		if strings.TrimSpace(trimmed) == "" {
			flushPara()
			flushList()
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			flushPara()
			flushList()
			root.Children = append(root.Children, &doctree.Node{
				Kind:     doctree.KindHeading,
				Depth:    len(m[1]),
				Children: parseInline(strings.TrimSpace(m[2])),
			})
			continue
		}

		if m := bulletRe.FindStringSubmatch(trimmed); m != nil {
			flushPara()
			if list == nil {
				list = &doctree.Node{Kind: doctree.KindList}
			}
			list.Children = append(list.Children, &doctree.Node{
				Kind: doctree.KindListItem,
				Children: []*doctree.Node{{
					Kind:     doctree.KindParagraph,
					Children: parseInline(strings.TrimSpace(m[1])),
				}},
			})
			continue
		}

		// A non-bullet line ends a list block.
		flushList()
		para = append(para, trimmed)
	}
	flushPara()
	flushList()

	return root
}

// parseInline splits a text run into text, link, image and html nodes.
func parseInline(s string) []*doctree.Node {
	var out []*doctree.Node
	addText := func(v string) {
		if v != "" {
			out = append(out, &doctree.Node{Kind: doctree.KindText, Value: v})
		}
	}

	for s != "" {
		loc := inlineRe.FindStringIndex(s)
		if loc == nil {
			addText(s)
			break
		}
		addText(s[:loc[0]])
		tok := s[loc[0]:loc[1]]
		s = s[loc[1]:]

		switch {
		case strings.HasPrefix(tok, "!["):
			m := imageRe.FindStringSubmatch(tok)
			out = append(out, &doctree.Node{
				Kind: doctree.KindImage,
				URL:  destinationOf(m[2]),
				Alt:  m[1],
			})
		case strings.HasPrefix(tok, "["):
			m := linkRe.FindStringSubmatch(tok)
			out = append(out, &doctree.Node{
				Kind:     doctree.KindLink,
				URL:      destinationOf(m[2]),
				Children: []*doctree.Node{{Kind: doctree.KindText, Value: m[1]}},
			})
		default:
			out = append(out, &doctree.Node{Kind: doctree.KindHTML, Value: tok})
		}
	}
	return out
}

// destinationOf strips an optional Markdown link title from the
// destination part, e.g. `url "title"` -> url.
func destinationOf(dest string) string {
	dest = strings.TrimSpace(dest)
	if i := strings.IndexAny(dest, " \t"); i >= 0 {
		dest = dest[:i]
	}
	return strings.Trim(dest, "<>")
}
