package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/repometa/internal/doctree"
	"github.com/dgallion1/repometa/internal/extract"
	"github.com/dgallion1/repometa/internal/github"
	"github.com/dgallion1/repometa/internal/metadata"
	"github.com/dgallion1/repometa/internal/parser"
	"github.com/dgallion1/repometa/internal/repourl"
	"github.com/dgallion1/repometa/internal/translate"
)

// ReadmeFetcher is the fallback source for README text when discovery
// did not deliver it.
type ReadmeFetcher interface {
	ReadmeText(ctx context.Context, owner, repo string) (string, error)
}

// Downloader retrieves image bytes.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, string, error)
}

// Translator opens per-repository translation sessions. Nil disables
// the translation stage entirely.
type Translator interface {
	Begin(ctx context.Context, repo string) *translate.Session
}

// Enricher runs the per-repository stage sequence. Every stage returns
// a patch to apply to the record; a stage that fails or panics applies
// nothing, so one broken enrichment can never corrupt the fields the
// other stages produced.
type Enricher struct {
	parser     *parser.Parser
	docs       *extract.DocsExtractor
	vocab      extract.Vocabulary
	resolver   repourl.Resolver
	fetcher    ReadmeFetcher
	downloader Downloader
	prober     repourl.Prober
	translator Translator
	assetsDir  string
	maxXlate   int
	log        *slog.Logger
}

// EnricherOptions carries the optional collaborators; any of them may
// be nil/empty and the corresponding stage degrades or is skipped.
type EnricherOptions struct {
	Fetcher    ReadmeFetcher
	Downloader Downloader
	Prober     repourl.Prober
	Translator Translator
	AssetsDir  string

	// MaxConcurrentTranslate bounds the batch translation fan-out;
	// zero means unbounded.
	MaxConcurrentTranslate int
}

func NewEnricher(p *parser.Parser, resolver repourl.Resolver, opts EnricherOptions, log *slog.Logger) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	vocab := extract.DefaultVocabulary()
	return &Enricher{
		parser:     p,
		docs:       extract.NewDocsExtractor(p, vocab),
		vocab:      vocab,
		resolver:   resolver,
		fetcher:    opts.Fetcher,
		downloader: opts.Downloader,
		prober:     opts.Prober,
		translator: opts.Translator,
		assetsDir:  opts.AssetsDir,
		maxXlate:   opts.MaxConcurrentTranslate,
		log:        log,
	}
}

type repoState struct {
	desc   github.Descriptor
	readme string
	tree   *doctree.Node
}

type patchFunc func(*metadata.Record)

type stage struct {
	name string
	run  func(ctx context.Context, st *repoState, rec *metadata.Record) (patchFunc, error)
}

// EnrichRepo produces the metadata record for one repository. It always
// returns a well-typed record: a repository whose README cannot be
// fetched or parsed comes back with empty-but-present fields.
func (e *Enricher) EnrichRepo(ctx context.Context, desc github.Descriptor) *metadata.Record {
	rec := metadata.NewRecord(desc.Name, desc.Description, desc.URL)
	st := &repoState{desc: desc, readme: desc.Readme}

	stages := []stage{
		{"fetch", e.stageFetch},
		{"parse", e.stageParse},
		{"summary", e.stageSummary},
		{"technologies", e.stageTechnologies},
		{"image", e.stageImage},
		{"docs", e.stageDocs},
		{"normalize", e.stageNormalize},
		{"pages", e.stagePages},
		{"translate", e.stageTranslate},
	}
	for _, sg := range stages {
		patch, err := runStage(ctx, sg, st, rec)
		if err != nil {
			e.log.Debug("enrichment stage skipped", "repo", desc.Name, "stage", sg.name, "error", err)
			continue
		}
		if patch != nil {
			patch(rec)
		}
	}
	return rec
}

// runStage converts a stage panic into an ordinary stage error.
func runStage(ctx context.Context, sg stage, st *repoState, rec *metadata.Record) (patch patchFunc, err error) {
	defer func() {
		if r := recover(); r != nil {
			patch, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return sg.run(ctx, st, rec)
}

func (e *Enricher) stageFetch(ctx context.Context, st *repoState, _ *metadata.Record) (patchFunc, error) {
	if st.readme == "" && e.fetcher != nil {
		text, err := e.fetcher.ReadmeText(ctx, e.resolver.Owner, st.desc.Name)
		if err != nil {
			return nil, err
		}
		st.readme = text
	}
	text := st.readme
	return func(r *metadata.Record) { r.Readme = text }, nil
}

func (e *Enricher) stageParse(_ context.Context, st *repoState, _ *metadata.Record) (patchFunc, error) {
	st.tree = e.parser.Parse(st.readme)
	return nil, nil
}

func (e *Enricher) stageSummary(_ context.Context, st *repoState, _ *metadata.Record) (patchFunc, error) {
	summary, source := extract.ExtractSummary(st.readme, st.tree, e.vocab)
	return func(r *metadata.Record) {
		r.Summary = summary
		r.SummarySource = source
	}, nil
}

func (e *Enricher) stageTechnologies(_ context.Context, st *repoState, _ *metadata.Record) (patchFunc, error) {
	tokens := extract.NormalizeTechnologies(extract.ExtractTechnologies(st.tree, e.vocab))
	return func(r *metadata.Record) { r.Technologies = tokens }, nil
}

func (e *Enricher) stageImage(ctx context.Context, st *repoState, _ *metadata.Record) (patchFunc, error) {
	candidate := extract.SelectImageCandidate(st.tree, e.vocab)
	if candidate == "" {
		return nil, nil
	}
	// Image candidates are fetched server-side for their bytes, so
	// relative paths resolve against the raw host even without elevated
	// credentials; the doc-link allowlist does not apply.
	abs := candidate
	if u, err := url.Parse(candidate); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		abs = e.resolver.RawContentURL(st.desc.Name, candidate)
	}
	if abs == "" {
		return nil, nil
	}
	if e.downloader == nil || e.assetsDir == "" {
		return func(r *metadata.Record) { r.PrimaryImage = abs }, nil
	}

	data, ctype, err := e.downloader.Download(ctx, abs)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(ctype, "image/") {
		return nil, fmt.Errorf("not an image: %s", ctype)
	}
	local, err := e.writeAsset(st.desc.Name, abs, data)
	if err != nil {
		return nil, err
	}
	return func(r *metadata.Record) { r.PrimaryImage = local }, nil
}

func (e *Enricher) writeAsset(repo, srcURL string, data []byte) (string, error) {
	ext := ".png"
	if u, err := url.Parse(srcURL); err == nil {
		if pe := path.Ext(u.Path); pe != "" {
			ext = pe
		}
	}
	dir := filepath.Join(e.assetsDir, repo)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create assets dir: %w", err)
	}
	local := filepath.Join(dir, "primary"+ext)
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return "", fmt.Errorf("write asset: %w", err)
	}
	return local, nil
}

func (e *Enricher) stageDocs(_ context.Context, st *repoState, _ *metadata.Record) (patchFunc, error) {
	link, title := extract.ExtractDocsLink(st.tree, e.vocab)
	repoDocs := e.docs.ExtractRepoDocs(st.readme, st.desc.Name)
	return func(r *metadata.Record) {
		r.DocsLink = link
		r.DocsTitle = title
		r.RepoDocs = repoDocs
	}, nil
}

// stageNormalize rewrites every extracted link into an absolute,
// resolvable URL. Pure, cannot fail.
func (e *Enricher) stageNormalize(_ context.Context, st *repoState, _ *metadata.Record) (patchFunc, error) {
	repo := st.desc.Name
	return func(r *metadata.Record) {
		if r.DocsLink != "" {
			r.DocsLink = e.resolver.ToAbsolute(r.DocsLink, repo)
		}
		eachDocLink(r.RepoDocs, func(d *metadata.DocLink) {
			d.Link = e.resolver.ToAbsolute(d.Link, repo)
		})
	}, nil
}

// stagePages upgrades raw-host docs links to their published
// static-pages equivalent where one is actually being served.
func (e *Enricher) stagePages(ctx context.Context, _ *repoState, rec *metadata.Record) (patchFunc, error) {
	if e.prober == nil {
		return nil, nil
	}
	upgrades := map[string]string{}
	probe := func(href string) {
		if href == "" {
			return
		}
		if _, done := upgrades[href]; done {
			return
		}
		if better := repourl.PreferStaticPages(ctx, href, e.prober); better != "" {
			upgrades[href] = better
		}
	}
	probe(rec.DocsLink)
	eachDocLink(rec.RepoDocs, func(d *metadata.DocLink) { probe(d.Link) })
	if len(upgrades) == 0 {
		return nil, nil
	}
	return func(r *metadata.Record) {
		if better, ok := upgrades[r.DocsLink]; ok {
			r.DocsLink = better
		}
		eachDocLink(r.RepoDocs, func(d *metadata.DocLink) {
			if better, ok := upgrades[d.Link]; ok {
				d.Link = better
			}
		})
	}, nil
}

func (e *Enricher) stageTranslate(ctx context.Context, st *repoState, rec *metadata.Record) (patchFunc, error) {
	if e.translator == nil {
		return nil, nil
	}
	sess := e.translator.Begin(ctx, st.desc.Name)
	var backend translate.Backend = retryBackend{inner: sess}
	if e.maxXlate > 0 {
		backend = limitedBackend{inner: backend, sem: make(chan struct{}, e.maxXlate)}
	}
	meta := translate.TranslateBatch(ctx, rec, backend)
	sess.Flush(ctx)
	return func(r *metadata.Record) { r.Translation = &meta }, nil
}

// eachDocLink visits every categorized link of a docs bundle.
func eachDocLink(docs *metadata.RepoDocs, visit func(*metadata.DocLink)) {
	if docs == nil {
		return
	}
	for _, d := range []*metadata.DocLink{docs.ArchitectureOverview, docs.APIDocumentation, docs.ProductionURL} {
		if d != nil {
			visit(d)
		}
	}
	if docs.Testing != nil {
		if docs.Testing.TestingDocs != nil {
			visit(docs.Testing.TestingDocs)
		}
		for i := range docs.Testing.Coverage {
			visit(&docs.Testing.Coverage[i])
		}
	}
}

// limitedBackend caps how many translation calls run at once.
type limitedBackend struct {
	inner translate.Backend
	sem   chan struct{}
}

func (b limitedBackend) Translate(ctx context.Context, text string) (translate.Result, error) {
	select {
	case b.sem <- struct{}{}:
	case <-ctx.Done():
		return translate.Result{}, ctx.Err()
	}
	defer func() { <-b.sem }()
	return b.inner.Translate(ctx, text)
}

// retryBackend retries transient translation failures with backoff.
type retryBackend struct {
	inner translate.Backend
}

func (b retryBackend) Translate(ctx context.Context, text string) (translate.Result, error) {
	var res translate.Result
	var err error
	for attempt := range MaxRetries {
		res, err = b.inner.Translate(ctx, text)
		if err == nil || !IsRetryable(err) {
			return res, err
		}
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return res, ctx.Err()
		}
	}
	return res, err
}
