package translate

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dgallion1/repometa/internal/metadata"
)

const maxUIChars = 300

// ShouldTranslateUI reports whether a string is a short UI string worth
// translating: non-empty after trimming and at most 300 runes. Longer
// texts are body copy, not card labels.
func ShouldTranslateUI(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && utf8.RuneCountInString(s) <= maxUIChars
}

// slot pairs a source text with the assignment of its translation. Slots
// sharing a text share one dispatched call; results map back through the
// slot's text index.
type slot struct {
	text   string
	assign func(string)
}

// TranslateBatch fills in the _de fields of rec: summary, legacy docs
// title and every structured category title and description that passes
// ShouldTranslateUI. Unique texts are dispatched concurrently against the
// backend, one call each; a failed or empty result skips only the fields
// carrying that text. The returned meta carries cache bookkeeping.
func TranslateBatch(ctx context.Context, rec *metadata.Record, backend Backend) metadata.TranslationMeta {
	var slots []slot
	add := func(text string, assign func(string)) {
		if ShouldTranslateUI(text) {
			slots = append(slots, slot{text: text, assign: assign})
		}
	}

	add(rec.Summary, func(de string) { rec.SummaryDE = de })
	add(rec.DocsTitle, func(de string) { rec.DocsTitleDE = de })

	if rec.RepoDocs != nil {
		addDocLink(add, rec.RepoDocs.ArchitectureOverview)
		addDocLink(add, rec.RepoDocs.APIDocumentation)
		addDocLink(add, rec.RepoDocs.ProductionURL)
		if t := rec.RepoDocs.Testing; t != nil {
			addDocLink(add, t.TestingDocs)
			for i := range t.Coverage {
				addDocLink(add, &t.Coverage[i])
			}
		}
		// The placeholder sentinel ships with a fixed German text.
	}

	// Identical text in different fields costs one external call: slots
	// are grouped by text before dispatch and the result fans out to
	// every slot carrying it.
	textIdx := make(map[string]int)
	var texts []string
	slotText := make([]int, len(slots))
	for i, sl := range slots {
		idx, ok := textIdx[sl.text]
		if !ok {
			idx = len(texts)
			textIdx[sl.text] = idx
			texts = append(texts, sl.text)
		}
		slotText[i] = idx
	}

	results := make([]Result, len(texts))
	errs := make([]error, len(texts))
	var wg sync.WaitGroup
	for i := range texts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = backend.Translate(ctx, texts[i])
		}(i)
	}
	wg.Wait()

	var meta metadata.TranslationMeta
	for i := range texts {
		if errs[i] != nil {
			meta.Failures++
			continue
		}
		switch results[i].Status {
		case StatusCached:
			meta.CacheHits++
		case StatusTranslated:
			meta.CacheMisses++
		}
	}
	for i := range slots {
		res, err := results[slotText[i]], errs[slotText[i]]
		if err != nil || res.Text == "" {
			continue
		}
		switch res.Status {
		case StatusCached, StatusTranslated:
			slots[i].assign(res.Text)
		}
	}

	switch {
	case meta.Failures > 0:
		meta.Status = "partial"
	case meta.CacheHits+meta.CacheMisses > 0:
		meta.Status = "ok"
	default:
		meta.Status = StatusSkipped
	}
	return meta
}

func addDocLink(add func(string, func(string)), d *metadata.DocLink) {
	if d == nil {
		return
	}
	add(d.Title, func(de string) { d.TitleDE = de })
	add(d.Description, func(de string) { d.DescriptionDE = de })
}
