package extract

import "regexp"

// Vocabulary holds the heading and label patterns the extractors match
// against. The matching vocabulary is data, not control flow: the scoping
// and fallback algorithms are fixed, but the phrases they look for can be
// swapped per deployment without touching extractor code.
type Vocabulary struct {
	// Heading patterns, matched case-insensitively against flattened
	// heading text.
	Screenshots   *regexp.Regexp
	Technologies  *regexp.Regexp
	Summary       *regexp.Regexp
	Documentation *regexp.Regexp
	Architecture  *regexp.Regexp

	// Label patterns, matched against link labels after prefix stripping.
	ArchitectureLabel *regexp.Regexp
	APILabel          *regexp.Regexp
	APIWide           *regexp.Regexp
	APIFile           *regexp.Regexp
	CoverageLabel     *regexp.Regexp
	TestingDocsLabel  *regexp.Regexp

	// Phrase patterns, matched against flattened paragraph/item text.
	ProductionPhrase *regexp.Regexp
}

// DefaultVocabulary returns the patterns tuned to the README conventions
// of this corpus.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Screenshots:   regexp.MustCompile(`(?i)screenshots?|images|gallery`),
		Technologies:  regexp.MustCompile(`(?i)technolog|tech|stack`),
		Summary:       regexp.MustCompile(`(?i)about|summary|overview|description|intro|what`),
		Documentation: regexp.MustCompile(`(?i)documentation`),
		Architecture:  regexp.MustCompile(`(?i)architecture overview`),

		ArchitectureLabel: regexp.MustCompile(`(?i)^index\b`),
		APILabel:          regexp.MustCompile(`(?i)^complete api`),
		APIWide:           regexp.MustCompile(`(?i)api`),
		APIFile:           regexp.MustCompile(`(?i)api[\w-]*\.(?:md|html)$`),
		CoverageLabel:     regexp.MustCompile(`(?i)test coverage`),
		TestingDocsLabel:  regexp.MustCompile(`(?i)testing (?:docs|documentation|guide)`),

		ProductionPhrase: regexp.MustCompile(`(?i)production url`),
	}
}
