package repourl

import (
	"context"
	"regexp"
	"strings"
)

// ProbeResult is what a HEAD-equivalent probe reports about a URL.
type ProbeResult struct {
	StatusCode   int
	ContentType  string
	FrameOptions string
}

// Prober performs the actual HTTP probe; the preference pass only needs
// status, content type and the frame header.
type Prober interface {
	Head(ctx context.Context, url string) (*ProbeResult, error)
}

var rawDocsRe = regexp.MustCompile(`^https://raw\.githubusercontent\.com/([^/]+)/([^/]+)/[^/]+/docs(?:/(.*))?$`)

// PreferStaticPages probes whether a raw-host docs link has an equivalent
// published static-pages URL and returns it when one is reachable,
// serves HTML and does not deny framing. Returns "" to keep the original
// link: this pass is a best-effort upgrade, never a requirement.
func PreferStaticPages(ctx context.Context, href string, prober Prober) string {
	if prober == nil {
		return ""
	}
	m := rawDocsRe.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	owner, repo, sub := m[1], m[2], m[3]
	base := "https://" + owner + ".github.io/" + repo

	var candidates []string
	if sub == "" {
		candidates = []string{base + "/", base + "/index.html"}
	} else {
		candidates = []string{base + "/" + sub}
		if !strings.HasSuffix(sub, ".html") {
			candidates = append(candidates, base+"/"+strings.TrimSuffix(sub, "/")+"/index.html")
		}
	}

	for _, candidate := range candidates {
		res, err := prober.Head(ctx, candidate)
		if err != nil || res == nil {
			continue
		}
		if res.StatusCode < 200 || res.StatusCode > 299 {
			continue
		}
		if !strings.Contains(strings.ToLower(res.ContentType), "text/html") {
			continue
		}
		if frameDenied(res.FrameOptions) {
			continue
		}
		return candidate
	}
	return ""
}

func frameDenied(frameOptions string) bool {
	v := strings.ToUpper(strings.TrimSpace(frameOptions))
	return strings.Contains(v, "DENY") || strings.Contains(v, "SAMEORIGIN")
}
