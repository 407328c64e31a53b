package extract

import (
	"strings"
	"testing"

	"github.com/dgallion1/repometa/internal/metadata"
	"github.com/dgallion1/repometa/internal/parser"
)

func TestExtractSummaryFromHeadingSection(t *testing.T) {
	md := "# proj\n\n" +
		"## About\n\n" +
		"A command line tool that turns GitHub READMEs into structured metadata records.\n\n" +
		"## Install\n\nirrelevant\n"
	for _, root := range bothTrees(t, md) {
		summary, source := ExtractSummary(md, root, DefaultVocabulary())
		if source != metadata.SummaryFromHeading {
			t.Errorf("source = %q", source)
		}
		if !strings.Contains(summary, "structured metadata records") {
			t.Errorf("summary = %q", summary)
		}
		if strings.Contains(summary, "irrelevant") {
			t.Error("summary leaked past the section boundary")
		}
	}
}

func TestExtractSummarySectionTooShortFallsThrough(t *testing.T) {
	md := "## About\n\nTiny.\n\nThis first real paragraph describes the project properly.\n"
	root := parser.New(true).Parse(md)
	summary, source := ExtractSummary(md, root, DefaultVocabulary())
	// "Tiny." is under 30 chars; the next paragraph in the section is long
	// enough and still counts as the heading section.
	if source != metadata.SummaryFromHeading {
		t.Errorf("source = %q", source)
	}
	if !strings.Contains(summary, "describes the project properly") {
		t.Errorf("summary = %q", summary)
	}
}

func TestExtractSummaryMinimumCountsRunes(t *testing.T) {
	// 18 runes but 54 bytes: the section minimum must count runes, so
	// this still falls through to the first-paragraph fallback.
	md := "# proj\n\n## About\n\nツールのメタデータパイプラインです。\n"
	root := parser.New(true).Parse(md)
	_, source := ExtractSummary(md, root, DefaultVocabulary())
	if source != metadata.SummaryFromFirstParagraph {
		t.Errorf("source = %q", source)
	}
}

func TestExtractSummaryFirstParagraphFallback(t *testing.T) {
	md := "# proj\n\n![badge](https://img.shields.io/b.svg)\n\nThe actual description paragraph of this project.\n"
	root := parser.New(true).Parse(md)
	summary, source := ExtractSummary(md, root, DefaultVocabulary())
	if source != metadata.SummaryFromFirstParagraph {
		t.Errorf("source = %q", source)
	}
	if !strings.Contains(summary, "actual description") {
		t.Errorf("summary = %q", summary)
	}
}

func TestExtractSummaryRawSectionWithoutTree(t *testing.T) {
	md := "## Overview\n\nThis overview section is plenty long enough to qualify as a summary.\n"
	summary, source := ExtractSummary(md, nil, DefaultVocabulary())
	if source != metadata.SummaryFromHeading {
		t.Errorf("source = %q", source)
	}
	if !strings.Contains(summary, "plenty long enough") {
		t.Errorf("summary = %q", summary)
	}
}

func TestExtractSummaryRawTruncateLastResort(t *testing.T) {
	// Nothing but badge images: every richer branch comes up empty.
	md := "![b](https://img.shields.io/one.svg)![b2](https://img.shields.io/two.svg)"
	summary, source := ExtractSummary(md, nil, DefaultVocabulary())
	if source != metadata.SummaryFromRawTruncate {
		t.Errorf("source = %q", source)
	}
	_ = summary
}

func TestExtractSummaryTruncation(t *testing.T) {
	long := strings.Repeat("word ", 100)
	md := "# proj\n\n" + long + "\n"
	root := parser.New(true).Parse(md)
	summary, source := ExtractSummary(md, root, DefaultVocabulary())
	if source != metadata.SummaryFromFirstParagraph {
		t.Errorf("source = %q", source)
	}
	if len([]rune(summary)) > 161 {
		t.Errorf("summary not truncated: %d runes", len([]rune(summary)))
	}
	if !strings.HasSuffix(summary, "…") {
		t.Errorf("expected ellipsis marker: %q", summary)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "link keeps label",
			in:   "see [the docs](https://example.com/docs) here",
			want: "see the docs here",
		},
		{
			name: "image removed",
			in:   "before ![alt](./x.png) after",
			want: "before after",
		},
		{
			name: "inline code unwrapped",
			in:   "run `make build` now",
			want: "run make build now",
		},
		{
			name: "html tags removed",
			in:   "a <b>bold</b> claim",
			want: "a bold claim",
		},
		{
			name: "bare url removed",
			in:   "hosted at https://example.com today",
			want: "hosted at today",
		},
		{
			name: "emoji removed",
			in:   "ship it 🚀 now",
			want: "ship it now",
		},
		{
			name: "whitespace collapsed",
			in:   "a\n\n  b\t c",
			want: "a b c",
		},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in, 0); got != tt.want {
			t.Errorf("%s: CleanText(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestCleanTextCodeFence(t *testing.T) {
	in := "intro\n```go\nfunc main() {}\n```\noutro"
	got := CleanText(in, 0)
	if strings.Contains(got, "func main") {
		t.Errorf("fence content should be stripped: %q", got)
	}
	if !strings.Contains(got, "intro") || !strings.Contains(got, "outro") {
		t.Errorf("prose lost: %q", got)
	}
}
