package repourl

import (
	"context"
	"errors"
	"testing"
)

type fakeProber struct {
	responses map[string]*ProbeResult
	probed    []string
}

func (f *fakeProber) Head(_ context.Context, url string) (*ProbeResult, error) {
	f.probed = append(f.probed, url)
	if res, ok := f.responses[url]; ok {
		return res, nil
	}
	return nil, errors.New("unreachable")
}

func TestPreferStaticPagesUpgrade(t *testing.T) {
	prober := &fakeProber{responses: map[string]*ProbeResult{
		"https://octo.github.io/proj/architecture": {
			StatusCode:  200,
			ContentType: "text/html; charset=utf-8",
		},
	}}
	got := PreferStaticPages(context.Background(),
		"https://raw.githubusercontent.com/octo/proj/main/docs/architecture", prober)
	if got != "https://octo.github.io/proj/architecture" {
		t.Errorf("expected pages upgrade, got %q", got)
	}
}

func TestPreferStaticPagesIndexHTMLFallback(t *testing.T) {
	prober := &fakeProber{responses: map[string]*ProbeResult{
		"https://octo.github.io/proj/guide/index.html": {
			StatusCode:  200,
			ContentType: "text/html",
		},
	}}
	got := PreferStaticPages(context.Background(),
		"https://raw.githubusercontent.com/octo/proj/main/docs/guide", prober)
	if got != "https://octo.github.io/proj/guide/index.html" {
		t.Errorf("expected index.html candidate, got %q", got)
	}
	if len(prober.probed) != 2 {
		t.Errorf("expected both candidates probed, got %v", prober.probed)
	}
}

func TestPreferStaticPagesBareRoot(t *testing.T) {
	prober := &fakeProber{responses: map[string]*ProbeResult{
		"https://octo.github.io/proj/": {
			StatusCode:  200,
			ContentType: "text/html",
		},
	}}
	got := PreferStaticPages(context.Background(),
		"https://raw.githubusercontent.com/octo/proj/main/docs", prober)
	if got != "https://octo.github.io/proj/" {
		t.Errorf("expected bare site root, got %q", got)
	}
}

func TestPreferStaticPagesRejectsFrameDenial(t *testing.T) {
	prober := &fakeProber{responses: map[string]*ProbeResult{
		"https://octo.github.io/proj/guide": {
			StatusCode:   200,
			ContentType:  "text/html",
			FrameOptions: "DENY",
		},
	}}
	got := PreferStaticPages(context.Background(),
		"https://raw.githubusercontent.com/octo/proj/main/docs/guide", prober)
	if got != "" {
		t.Errorf("frame-denying page must not be preferred, got %q", got)
	}
}

func TestPreferStaticPagesRejectsNonHTML(t *testing.T) {
	prober := &fakeProber{responses: map[string]*ProbeResult{
		"https://octo.github.io/proj/guide": {
			StatusCode:  200,
			ContentType: "application/octet-stream",
		},
	}}
	got := PreferStaticPages(context.Background(),
		"https://raw.githubusercontent.com/octo/proj/main/docs/guide", prober)
	if got != "" {
		t.Errorf("non-html response must not be preferred, got %q", got)
	}
}

func TestPreferStaticPagesOnlyRawDocsLinks(t *testing.T) {
	prober := &fakeProber{responses: map[string]*ProbeResult{}}
	for _, href := range []string{
		"https://example.com/docs/x",
		"https://github.com/octo/proj/blob/main/docs/x.md",
		"https://raw.githubusercontent.com/octo/proj/main/src/x.md",
	} {
		if got := PreferStaticPages(context.Background(), href, prober); got != "" {
			t.Errorf("href %q should not be upgraded, got %q", href, got)
		}
	}
	if len(prober.probed) != 0 {
		t.Errorf("no probe should be issued for non-docs links: %v", prober.probed)
	}
}

func TestPreferStaticPagesNilProber(t *testing.T) {
	got := PreferStaticPages(context.Background(),
		"https://raw.githubusercontent.com/octo/proj/main/docs/guide", nil)
	if got != "" {
		t.Error("missing probe mechanism must keep the original link")
	}
}
