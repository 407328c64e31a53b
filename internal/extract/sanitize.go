package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// StripLabelPrefix removes bullet markers, emoji and other decoration from
// the front of a link label so label rules see the actual words.
func StripLabelPrefix(label string) string {
	return strings.TrimLeftFunc(label, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var treeFragmentRe = regexp.MustCompile(`\{[^{}]*"(?:type|kind|children|value|url|depth)"\s*:[^{}]*\}`)
var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// StripTreeFragments defensively removes literal embedded node-JSON
// fragments from description text. A misbehaving upstream step that
// double-serializes a tree must not leak markup into rendered output;
// this is a textual defense, not a normal code path.
func StripTreeFragments(s string) string {
	for {
		cleaned := treeFragmentRe.ReplaceAllString(s, "")
		if cleaned == s {
			break
		}
		s = cleaned
	}
	return strings.TrimSpace(multiSpaceRe.ReplaceAllString(s, " "))
}
