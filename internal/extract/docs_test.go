package extract

import (
	"strings"
	"testing"

	"github.com/dgallion1/repometa/internal/parser"
)

func newDocsExtractor() *DocsExtractor {
	return NewDocsExtractor(parser.New(true), DefaultVocabulary())
}

func TestExtractDocsLinkLegacy(t *testing.T) {
	md := "## Documentation\n\nPlease see [Docs](https://example.com/docs) for details.\n"
	for _, root := range bothTrees(t, md) {
		link, title := ExtractDocsLink(root, DefaultVocabulary())
		if link != "https://example.com/docs" {
			t.Errorf("docsLink = %q", link)
		}
		if title != "Docs" {
			t.Errorf("docsTitle = %q", title)
		}
	}
}

func TestExtractDocsLinkFromListItem(t *testing.T) {
	md := "## Documentation\n\n- [API Guide](./docs/api.md)\n"
	for _, root := range bothTrees(t, md) {
		link, title := ExtractDocsLink(root, DefaultVocabulary())
		if link != "./docs/api.md" || title != "API Guide" {
			t.Errorf("got (%q, %q)", link, title)
		}
	}
}

func TestExtractDocsLinkAbsent(t *testing.T) {
	for _, root := range bothTrees(t, "# proj\n\nnothing here\n") {
		if link, title := ExtractDocsLink(root, DefaultVocabulary()); link != "" || title != "" {
			t.Errorf("expected empty, got (%q, %q)", link, title)
		}
	}
}

func TestExtractRepoDocsArchitecture(t *testing.T) {
	md := "## Architecture Overview\n\n" +
		"- [Index of architecture docs](./docs/architecture/index.md)\n"
	docs := newDocsExtractor().ExtractRepoDocs(md, "proj")
	if docs.ArchitectureOverview == nil {
		t.Fatal("expected architecture link")
	}
	if docs.ArchitectureOverview.Link != "./docs/architecture/index.md" {
		t.Errorf("link = %q", docs.ArchitectureOverview.Link)
	}
	if docs.Placeholder != nil {
		t.Error("placeholder must be absent when a category matched")
	}
}

func TestExtractRepoDocsArchitectureRequiresIndexLabel(t *testing.T) {
	// A heading mentioning the phrase, with a section but no Index-labelled
	// link, must not match.
	md := "## Architecture Overview\n\n" +
		"We describe the architecture in prose with a [diagram](./d.png).\n"
	docs := newDocsExtractor().ExtractRepoDocs(md, "proj")
	if docs.ArchitectureOverview != nil {
		t.Errorf("prose-only section should not match: %+v", docs.ArchitectureOverview)
	}
}

func TestExtractRepoDocsArchitectureLabelPrefixStripped(t *testing.T) {
	md := "## Architecture Overview\n\n" +
		"- 📚 Index - all architecture documents: [📚 Index](./docs/architecture/index.md)\n"
	docs := newDocsExtractor().ExtractRepoDocs(md, "proj")
	if docs.ArchitectureOverview == nil {
		t.Fatal("emoji-prefixed Index label should match")
	}
}

func TestExtractRepoDocsAPIStrictLabel(t *testing.T) {
	md := "# proj\n\nSee [Complete API Documentation](./docs/api.html) for every endpoint.\n"
	docs := newDocsExtractor().ExtractRepoDocs(md, "proj")
	if docs.APIDocumentation == nil {
		t.Fatal("expected api link")
	}
	if docs.APIDocumentation.Link != "./docs/api.html" {
		t.Errorf("link = %q", docs.APIDocumentation.Link)
	}
	if !strings.Contains(docs.APIDocumentation.Description, "every endpoint") {
		t.Errorf("description = %q", docs.APIDocumentation.Description)
	}
}

func TestExtractRepoDocsAPISkipsHeadings(t *testing.T) {
	// A heading that merely says "API Documentation" is not a link match.
	md := "## API Documentation\n\nNo link in this section.\n"
	docs := newDocsExtractor().ExtractRepoDocs(md, "proj")
	if docs.APIDocumentation != nil {
		t.Errorf("heading text alone must not match: %+v", docs.APIDocumentation)
	}
}

func TestExtractRepoDocsAPIWideFallback(t *testing.T) {
	md := "# proj\n\nEndpoints are listed in [the api reference](./reference/api.md).\n"
	docs := newDocsExtractor().ExtractRepoDocs(md, "proj")
	if docs.APIDocumentation == nil {
		t.Fatal("wide fallback should match an api-labelled link")
	}
	if docs.APIDocumentation.Link != "./reference/api.md" {
		t.Errorf("link = %q", docs.APIDocumentation.Link)
	}
}

func TestExtractRepoDocsCoverageCollectsAll(t *testing.T) {
	md := "## Testing\n\n" +
		"- [Backend Test Coverage](https://example.com/cov/backend)\n" +
		"- [Frontend Test Coverage](https://example.com/cov/frontend)\n"
	docs := newDocsExtractor().ExtractRepoDocs(md, "proj")
	if docs.Testing == nil {
		t.Fatal("expected testing bundle")
	}
	if len(docs.Testing.Coverage) != 2 {
		t.Fatalf("expected 2 coverage links, got %d", len(docs.Testing.Coverage))
	}
	if docs.Testing.Coverage[0].Link != "https://example.com/cov/backend" {
		t.Errorf("order not preserved: %q", docs.Testing.Coverage[0].Link)
	}
}

func TestExtractRepoDocsProductionURL(t *testing.T) {
	// The phrase may be surrounding prose, not the link label.
	md := "# proj\n\nProduction URL: [example.app](https://example.app)\n"
	docs := newDocsExtractor().ExtractRepoDocs(md, "proj")
	if docs.ProductionURL == nil {
		t.Fatal("expected production url")
	}
	if docs.ProductionURL.Link != "https://example.app" {
		t.Errorf("link = %q", docs.ProductionURL.Link)
	}
}

func TestExtractRepoDocsPlaceholderSentinel(t *testing.T) {
	md := "# proj\n\nJust a readme with [a random link](https://example.com) and text.\n"
	docs := newDocsExtractor().ExtractRepoDocs(md, "proj")
	if docs == nil {
		t.Fatal("bundle must never be nil")
	}
	if docs.ArchitectureOverview != nil || docs.APIDocumentation != nil || docs.Testing != nil || docs.ProductionURL != nil {
		t.Fatalf("no category should match: %+v", docs)
	}
	if docs.Placeholder == nil {
		t.Fatal("expected placeholder sentinel")
	}
	if docs.Placeholder.Title != "Under Construction" {
		t.Errorf("placeholder title = %q", docs.Placeholder.Title)
	}
	if docs.Placeholder.TitleDE != "Noch in Entwicklung" {
		t.Errorf("placeholder title_de = %q", docs.Placeholder.TitleDE)
	}
}

func TestStripLabelPrefix(t *testing.T) {
	tests := []struct{ in, want string }{
		{"- Index of docs", "Index of docs"},
		{"📚 Index", "Index"},
		{"• Complete API Reference", "Complete API Reference"},
		{"...Index", "Index"},
		{"Index", "Index"},
	}
	for _, tt := range tests {
		if got := StripLabelPrefix(tt.in); got != tt.want {
			t.Errorf("StripLabelPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripTreeFragments(t *testing.T) {
	in := `Read the guide {"type":"text","value":"leaked"} carefully.`
	got := StripTreeFragments(in)
	if strings.Contains(got, "leaked") || strings.Contains(got, "{") {
		t.Errorf("fragment not removed: %q", got)
	}
	if !strings.Contains(got, "Read the guide") || !strings.Contains(got, "carefully.") {
		t.Errorf("surrounding prose lost: %q", got)
	}

	plain := "No fragments at all."
	if got := StripTreeFragments(plain); got != plain {
		t.Errorf("plain text should pass through: %q", got)
	}
}
