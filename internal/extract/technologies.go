package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/repometa/internal/doctree"
)

// ExtractTechnologies reads the depth-scoped section under the first
// technologies heading. List items contribute one token each; paragraphs
// with commas are split into one token per segment; other paragraphs that
// are not markup artifacts contribute themselves whole. Tokens keep
// first-seen order and are not de-duplicated here; NormalizeTechnologies
// is the later pass for that.
func ExtractTechnologies(root *doctree.Node, vocab Vocabulary) []string {
	section := doctree.SectionAfter(root, func(h *doctree.Node) bool {
		return vocab.Technologies.MatchString(doctree.FlattenText(h))
	})

	var tokens []string
	add := func(tok string) {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}

	for _, n := range section {
		switch n.Kind {
		case doctree.KindList:
			for _, li := range n.Children {
				add(stripBulletMarkers(doctree.FlattenText(li)))
			}
		case doctree.KindParagraph:
			text := strings.TrimSpace(doctree.FlattenText(n))
			if text == "" {
				continue
			}
			if strings.Contains(text, ",") {
				text = strings.TrimSpace(strings.TrimPrefix(text, "Also:"))
				for _, part := range strings.Split(text, ",") {
					add(part)
				}
				continue
			}
			if strings.HasPrefix(text, "<") || strings.HasPrefix(text, "!") || strings.HasPrefix(text, "#") {
				continue
			}
			add(text)
		}
	}
	return tokens
}

var compoundSplitRe = regexp.MustCompile(`\s+(?:and|with)\s+|\s*[,/&+]\s*`)

// NormalizeTechnologies is the cleanup pass over raw tokens: Markdown bold
// markers are stripped, compound tokens like "Docker and Kubernetes" are
// split apart, and duplicates are dropped case-insensitively keeping the
// first spelling seen.
func NormalizeTechnologies(tokens []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, tok := range tokens {
		tok = strings.ReplaceAll(tok, "**", "")
		for _, part := range compoundSplitRe.Split(tok, -1) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, part)
		}
	}
	return out
}

// stripBulletMarkers removes leading bullet characters that survive in
// flattened list-item text from the fallback parser.
func stripBulletMarkers(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "-*+• \t")
}
