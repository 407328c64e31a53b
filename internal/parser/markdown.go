package parser

import (
	"bytes"
	"fmt"

	"github.com/dgallion1/repometa/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseGoldmark runs the full-grade parse and converts the goldmark AST
// into a doctree. Any panic from the parser is converted into an error so
// the caller can fall back.
func parseGoldmark(src []byte) (root *doctree.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			root = nil
			err = fmt.Errorf("markdown parse panic: %v", r)
		}
	}()

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	root = &doctree.Node{Kind: doctree.KindRoot}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		appendBlock(root, n, src)
	}
	return root, nil
}

// appendBlock converts one goldmark block node and appends the result to
// parent's children. Unsupported blocks (code fences, thematic breaks) are
// dropped; blockquote children are lifted into the parent.
func appendBlock(parent *doctree.Node, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		parent.Children = append(parent.Children, &doctree.Node{
			Kind:     doctree.KindHeading,
			Depth:    node.Level,
			Children: convertInlines(node, src),
		})
	case *ast.Paragraph:
		parent.Children = append(parent.Children, &doctree.Node{
			Kind:     doctree.KindParagraph,
			Children: convertInlines(node, src),
		})
	case *ast.TextBlock:
		parent.Children = append(parent.Children, &doctree.Node{
			Kind:     doctree.KindParagraph,
			Children: convertInlines(node, src),
		})
	case *ast.List:
		list := &doctree.Node{Kind: doctree.KindList}
		for li := node.FirstChild(); li != nil; li = li.NextSibling() {
			item := &doctree.Node{Kind: doctree.KindListItem}
			for c := li.FirstChild(); c != nil; c = c.NextSibling() {
				appendBlock(item, c, src)
			}
			list.Children = append(list.Children, item)
		}
		parent.Children = append(parent.Children, list)
	case *ast.HTMLBlock:
		var buf bytes.Buffer
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		parent.Children = append(parent.Children, &doctree.Node{
			Kind:  doctree.KindHTML,
			Value: buf.String(),
		})
	case *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			appendBlock(parent, c, src)
		}
	}
}

// convertInlines converts the inline children of a goldmark node.
// Transparent containers (emphasis, code spans) contribute their text;
// only links, images, raw HTML and text survive as distinct nodes.
func convertInlines(n ast.Node, src []byte) []*doctree.Node {
	var out []*doctree.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			v := string(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				v += "\n"
			}
			out = appendText(out, v)
		case *ast.String:
			out = appendText(out, string(node.Value))
		case *ast.Link:
			out = append(out, &doctree.Node{
				Kind:     doctree.KindLink,
				URL:      string(node.Destination),
				Children: convertInlines(node, src),
			})
		case *ast.AutoLink:
			label := string(node.Label(src))
			out = append(out, &doctree.Node{
				Kind:     doctree.KindLink,
				URL:      string(node.URL(src)),
				Children: []*doctree.Node{{Kind: doctree.KindText, Value: label}},
			})
		case *ast.Image:
			out = append(out, &doctree.Node{
				Kind: doctree.KindImage,
				URL:  string(node.Destination),
				Alt:  inlineText(node, src),
			})
		case *ast.RawHTML:
			var buf bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(src))
			}
			out = append(out, &doctree.Node{Kind: doctree.KindHTML, Value: buf.String()})
		default:
			out = append(out, convertInlines(c, src)...)
		}
	}
	return out
}

// appendText adds a text node, merging with a preceding text node so
// emphasis boundaries do not fragment prose.
func appendText(out []*doctree.Node, v string) []*doctree.Node {
	if v == "" {
		return out
	}
	if len(out) > 0 && out[len(out)-1].Kind == doctree.KindText {
		out[len(out)-1].Value += v
		return out
	}
	return append(out, &doctree.Node{Kind: doctree.KindText, Value: v})
}

// inlineText flattens a goldmark inline subtree to plain text.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
		} else {
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}
