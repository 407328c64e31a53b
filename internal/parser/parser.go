package parser

import (
	"strings"

	"github.com/dgallion1/repometa/internal/doctree"
)

// Parser turns raw README text into a document tree. The full flag selects
// the goldmark front end; it is resolved once at construction so nothing
// reads ambient state to decide which parser runs. When goldmark fails or
// the flag is off, the line-oriented fallback builder runs instead. Both
// produce the same node-kind contracts, so extractors never depend on
// parser identity.
type Parser struct {
	full bool
}

// New returns a Parser. Pass full=false to force the fallback builder.
func New(full bool) *Parser {
	return &Parser{full: full}
}

// Parse converts text into a document tree. Returns nil for empty or
// whitespace-only input. No error and no panic ever escapes; the worst
// case is an empty root.
func (p *Parser) Parse(input string) *doctree.Node {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	if p.full {
		if root, err := parseGoldmark([]byte(input)); err == nil && root != nil {
			return root
		}
	}
	return buildFallback(input)
}
