package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/repometa/internal/doctree"
	"github.com/dgallion1/repometa/internal/metadata"
)

const (
	// minSectionChars is the minimum cleaned length in runes for a
	// heading-scoped section to be accepted as a summary.
	minSectionChars = 30
	// maxSummaryChars caps a summary taken from a dedicated section.
	maxSummaryChars = 300
	// maxExcerptChars caps the raw-text fallbacks.
	maxExcerptChars = 160
)

// ExtractSummary finds the best short descriptive text for a repository
// and reports where it came from: a dedicated about/summary section, the
// first paragraph of the raw text, or a raw truncation as last resort.
func ExtractSummary(readmeText string, root *doctree.Node, vocab Vocabulary) (summary, source string) {
	if s := summaryFromSection(root, vocab); s != "" {
		return s, metadata.SummaryFromHeading
	}
	if root == nil {
		if s := summaryFromRawSection(readmeText, vocab); s != "" {
			return s, metadata.SummaryFromHeading
		}
	}
	if s := firstRawParagraph(readmeText); s != "" {
		return s, metadata.SummaryFromFirstParagraph
	}
	return CleanText(readmeText, maxExcerptChars), metadata.SummaryFromRawTruncate
}

func summaryFromSection(root *doctree.Node, vocab Vocabulary) string {
	section := doctree.SectionAfter(root, func(h *doctree.Node) bool {
		return vocab.Summary.MatchString(doctree.FlattenText(h))
	})
	for _, n := range section {
		if n.Kind != doctree.KindParagraph {
			continue
		}
		s := CleanText(doctree.FlattenText(n), maxSummaryChars)
		if utf8.RuneCountInString(s) >= minSectionChars {
			return s
		}
	}
	return ""
}

var rawHeadingRe = regexp.MustCompile(`^#{1,6}\s+(.+)$`)

// summaryFromRawSection is the plain-text twin of summaryFromSection for
// documents where no tree is available at all.
func summaryFromRawSection(readmeText string, vocab Vocabulary) string {
	lines := strings.Split(readmeText, "\n")
	for i, line := range lines {
		m := rawHeadingRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil || !vocab.Summary.MatchString(m[1]) {
			continue
		}
		var body []string
		for _, next := range lines[i+1:] {
			if rawHeadingRe.MatchString(strings.TrimSpace(next)) {
				break
			}
			body = append(body, next)
		}
		s := CleanText(strings.Join(body, "\n"), maxSummaryChars)
		if utf8.RuneCountInString(s) >= minSectionChars {
			return s
		}
	}
	return ""
}

// firstRawParagraph returns the first blank-line-separated block of the
// raw text that survives cleaning, skipping headings and badge-only
// blocks.
func firstRawParagraph(readmeText string) string {
	for _, block := range strings.Split(readmeText, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") {
			continue
		}
		if s := CleanText(block, maxExcerptChars); s != "" {
			return s
		}
	}
	return ""
}

var (
	fenceRe      = regexp.MustCompile("(?s)```.*?```")
	imageSynRe   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkSynRe    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	bareURLRe    = regexp.MustCompile(`https?://\S+`)
	emojiRe      = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}]|[\x{2600}-\x{27BF}]|\x{FE0F}`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// CleanText normalizes extracted prose for display: code fences and
// inline code markup go, Markdown links keep their label, image syntax,
// HTML tags, bare URLs and emoji are removed, whitespace collapses, and
// the result is truncated to max runes with an ellipsis.
func CleanText(s string, max int) string {
	s = fenceRe.ReplaceAllString(s, " ")
	s = imageSynRe.ReplaceAllString(s, " ")
	s = linkSynRe.ReplaceAllString(s, "$1")
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = bareURLRe.ReplaceAllString(s, " ")
	s = emojiRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))

	if max > 0 {
		runes := []rune(s)
		if len(runes) > max {
			s = strings.TrimSpace(string(runes[:max])) + "…"
		}
	}
	return s
}
