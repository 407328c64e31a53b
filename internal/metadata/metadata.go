// Package metadata defines the per-repository record the enrichment
// pipeline produces. JSON field names are a wire contract: card-rendering
// consumers rely on summary, technologies, docsLink, docsTitle, repoDocs,
// primaryImage and the placeholder shape exactly as spelled here.
package metadata

// DocLink is one categorized documentation link.
type DocLink struct {
	Title         string `json:"title"`
	TitleDE       string `json:"title_de,omitempty"`
	Link          string `json:"link"`
	Description   string `json:"description"`
	DescriptionDE string `json:"description_de,omitempty"`
}

// TestingDocs groups test-related links. Coverage holds every "Test
// Coverage" link found, in document order; repositories commonly publish
// separate backend and frontend reports.
type TestingDocs struct {
	Coverage    []DocLink `json:"coverage"`
	TestingDocs *DocLink  `json:"testingDocs"`
}

// Placeholder is the "nothing found" sentinel. It is a positive,
// renderable state, present exactly when no other category matched.
type Placeholder struct {
	Title         string `json:"title"`
	TitleDE       string `json:"title_de"`
	Description   string `json:"description"`
	DescriptionDE string `json:"description_de"`
}

// RepoDocs bundles every categorized documentation link for a repository.
type RepoDocs struct {
	ArchitectureOverview *DocLink     `json:"architectureOverview"`
	APIDocumentation     *DocLink     `json:"apiDocumentation"`
	Testing              *TestingDocs `json:"testing"`
	ProductionURL        *DocLink     `json:"productionUrl"`
	Placeholder          *Placeholder `json:"placeholder,omitempty"`
}

// Empty reports whether no link category matched.
func (d *RepoDocs) Empty() bool {
	if d == nil {
		return true
	}
	return d.ArchitectureOverview == nil && d.APIDocumentation == nil &&
		d.Testing == nil && d.ProductionURL == nil
}

// TranslationMeta is cache/debug bookkeeping for one record's translation
// pass.
type TranslationMeta struct {
	CacheHits   int    `json:"cacheHits"`
	CacheMisses int    `json:"cacheMisses"`
	Failures    int    `json:"failures"`
	Status      string `json:"status,omitempty"`
}

// Summary provenance tags.
const (
	SummaryFromHeading        = "heading"
	SummaryFromFirstParagraph = "first-paragraph"
	SummaryFromRawTruncate    = "raw-truncate"
)

// Record is the final metadata for one repository, keyed by Name. It is
// created empty at pipeline start and enriched stage by stage; the raw
// README text and parsed tree are transient and never serialized.
type Record struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`

	Readme string `json:"-"`

	Summary       string `json:"summary"`
	SummaryDE     string `json:"summary_de,omitempty"`
	SummarySource string `json:"_summarySource,omitempty"`

	Technologies []string `json:"technologies"`

	PrimaryImage string `json:"primaryImage,omitempty"`

	// Legacy single-link projection, kept backward compatible.
	DocsLink    string `json:"docsLink"`
	DocsTitle   string `json:"docsTitle"`
	DocsTitleDE string `json:"docsTitle_de,omitempty"`

	RepoDocs *RepoDocs `json:"repoDocs"`

	Translation *TranslationMeta `json:"_translation,omitempty"`
}

// NewRecord returns a well-typed empty record so a repository that fails
// every enrichment stage still serializes with the full field set.
func NewRecord(name, description, url string) *Record {
	return &Record{
		Name:         name,
		Description:  description,
		URL:          url,
		Technologies: []string{},
	}
}
