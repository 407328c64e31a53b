package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/repometa/internal/doctree"
	"github.com/dgallion1/repometa/internal/metadata"
	"github.com/dgallion1/repometa/internal/parser"
)

// DocsExtractor locates categorized documentation links in a README. The
// four categories deliberately match differently, reflecting how each kind
// of link conventionally appears in this corpus.
type DocsExtractor struct {
	parser *parser.Parser
	vocab  Vocabulary
}

func NewDocsExtractor(p *parser.Parser, vocab Vocabulary) *DocsExtractor {
	return &DocsExtractor{parser: p, vocab: vocab}
}

// ExtractDocsLink is the legacy single-link extractor: the first link in
// the section under a documentation heading. Returns empty strings when
// the document has no such section or link.
func ExtractDocsLink(root *doctree.Node, vocab Vocabulary) (link, title string) {
	section := doctree.SectionAfter(root, func(h *doctree.Node) bool {
		return vocab.Documentation.MatchString(doctree.FlattenText(h))
	})
	for _, c := range containersIn(section) {
		if ref := firstLinkIn(c); ref != nil {
			return ref.URL, ref.Title
		}
	}
	return "", ""
}

// ExtractRepoDocs builds the full documentation bundle for a README. When
// none of the categories match, the bundle carries only the placeholder
// sentinel: "no documentation" is a renderable state, never a nil result.
func (e *DocsExtractor) ExtractRepoDocs(readmeText, repoName string) *metadata.RepoDocs {
	root := e.parser.Parse(readmeText)

	docs := &metadata.RepoDocs{
		ArchitectureOverview: e.architectureOverview(root),
		APIDocumentation:     e.apiDocumentation(root, readmeText),
	}

	coverage := e.coverageLinks(root)
	testing := e.testingDocs(root)
	if len(coverage) > 0 || testing != nil {
		docs.Testing = &metadata.TestingDocs{Coverage: coverage, TestingDocs: testing}
	}
	docs.ProductionURL = e.productionURL(root)

	if docs.Empty() {
		docs.Placeholder = &metadata.Placeholder{
			Title:         "Under Construction",
			TitleDE:       "Noch in Entwicklung",
			Description:   "Documentation for " + repoName + " is still being written.",
			DescriptionDE: "Die Dokumentation zu " + repoName + " entsteht gerade.",
		}
	}
	return docs
}

// architectureOverview only accepts an explicit link whose label starts
// with "Index" inside the architecture-overview section. A heading that
// mentions the phrase without such a link is not a match; that keeps
// prose-only headings from producing false positives.
func (e *DocsExtractor) architectureOverview(root *doctree.Node) *metadata.DocLink {
	section := doctree.SectionAfter(root, func(h *doctree.Node) bool {
		return e.vocab.Architecture.MatchString(doctree.FlattenText(h))
	})
	for _, c := range containersIn(section) {
		ref := firstLinkIn(c)
		if ref == nil {
			continue
		}
		if e.vocab.ArchitectureLabel.MatchString(StripLabelPrefix(ref.Title)) {
			return toDocLink(ref)
		}
	}
	return nil
}

var mdLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)[^)]*\)`)

// apiDocumentation runs three passes of progressively wider matching, all
// of them skipping heading lines so a heading that merely says "API
// Documentation" never matches on its own.
func (e *DocsExtractor) apiDocumentation(root *doctree.Node, readmeText string) *metadata.DocLink {
	// Pass 1: strict "Complete API" label in the parsed tree.
	for _, c := range containersIn(childrenOf(root)) {
		for _, ref := range allLinksIn(c) {
			if e.vocab.APILabel.MatchString(StripLabelPrefix(ref.Title)) {
				return toDocLink(ref)
			}
		}
	}

	// Pass 2: the same rule as a plain-text line scan, for documents the
	// parser mangled. Heading lines are still skipped.
	for _, line := range strings.Split(readmeText, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		for _, m := range mdLinkRe.FindAllStringSubmatch(line, -1) {
			if e.vocab.APILabel.MatchString(StripLabelPrefix(m[1])) {
				desc := StripTreeFragments(strings.TrimSpace(mdLinkRe.ReplaceAllString(line, "")))
				return &metadata.DocLink{Title: strings.TrimSpace(m[1]), Link: m[2], Description: desc}
			}
		}
	}

	// Pass 3: last resort, any link labelled "api" or pointing at an
	// API-named file.
	for _, c := range containersIn(childrenOf(root)) {
		for _, ref := range allLinksIn(c) {
			if e.vocab.APIWide.MatchString(ref.Title) || e.vocab.APIFile.MatchString(pathOnly(ref.URL)) {
				return toDocLink(ref)
			}
		}
	}
	return nil
}

// coverageLinks accumulates every link whose label mentions test coverage,
// in document order. Repositories publish separate backend and frontend
// reports, so this is the one category that keeps all matches.
func (e *DocsExtractor) coverageLinks(root *doctree.Node) []metadata.DocLink {
	var out []metadata.DocLink
	for _, c := range containersIn(childrenOf(root)) {
		for _, ref := range allLinksIn(c) {
			if e.vocab.CoverageLabel.MatchString(ref.Title) {
				out = append(out, *toDocLink(ref))
			}
		}
	}
	return out
}

func (e *DocsExtractor) testingDocs(root *doctree.Node) *metadata.DocLink {
	for _, c := range containersIn(childrenOf(root)) {
		for _, ref := range allLinksIn(c) {
			if e.vocab.TestingDocsLabel.MatchString(StripLabelPrefix(ref.Title)) {
				return toDocLink(ref)
			}
		}
	}
	return nil
}

// productionURL takes the first link of the first paragraph or list item
// whose flattened text mentions the production-URL phrase. The phrase may
// be surrounding prose; it does not have to be the link label itself.
func (e *DocsExtractor) productionURL(root *doctree.Node) *metadata.DocLink {
	for _, c := range containersIn(childrenOf(root)) {
		if !e.vocab.ProductionPhrase.MatchString(doctree.FlattenText(c)) {
			continue
		}
		if ref := firstLinkIn(c); ref != nil {
			return toDocLink(ref)
		}
	}
	return nil
}

func toDocLink(ref *doctree.LinkRef) *metadata.DocLink {
	return &metadata.DocLink{
		Title:       ref.Title,
		Link:        ref.URL,
		Description: StripTreeFragments(ref.Description),
	}
}

func childrenOf(root *doctree.Node) []*doctree.Node {
	if root == nil {
		return nil
	}
	return root.Children
}

// containersIn returns every top-level paragraph and list item in the
// given nodes in document order. Headings are skipped entirely: label
// rules must never match text that only appears in a heading. A list item
// is one container; its inner paragraphs are not listed separately, so a
// link is never attributed to two containers.
func containersIn(nodes []*doctree.Node) []*doctree.Node {
	var out []*doctree.Node
	for _, n := range nodes {
		switch n.Kind {
		case doctree.KindParagraph:
			out = append(out, n)
		case doctree.KindList:
			for _, li := range n.Children {
				out = append(out, li)
				for _, c := range li.Children {
					if c.Kind == doctree.KindList {
						out = append(out, containersIn([]*doctree.Node{c})...)
					}
				}
			}
		}
	}
	return out
}

// firstLinkIn lifts the first link out of a paragraph or list item.
func firstLinkIn(c *doctree.Node) *doctree.LinkRef {
	switch c.Kind {
	case doctree.KindParagraph:
		return doctree.FirstLinkInParagraph(c)
	case doctree.KindListItem:
		return doctree.FirstLinkInListItem(c)
	}
	return nil
}

// allLinksIn returns every link nested in a container, each with the
// container's sibling prose as description. Nested lists are not
// descended into; they are separate containers.
func allLinksIn(c *doctree.Node) []*doctree.LinkRef {
	var desc strings.Builder
	var links []*doctree.Node
	doctree.Walk(c, func(n *doctree.Node) bool {
		switch n.Kind {
		case doctree.KindList:
			return n == c
		case doctree.KindLink:
			links = append(links, n)
			return false
		case doctree.KindText:
			desc.WriteString(n.Value)
		}
		return true
	})
	prose := strings.TrimSpace(desc.String())
	out := make([]*doctree.LinkRef, 0, len(links))
	for _, l := range links {
		out = append(out, &doctree.LinkRef{
			URL:         l.URL,
			Title:       strings.TrimSpace(doctree.FlattenText(l)),
			Description: prose,
		})
	}
	return out
}
