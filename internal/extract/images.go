package extract

import (
	"strings"

	"github.com/dgallion1/repometa/internal/doctree"
	"golang.org/x/net/html"
)

// badgeMarkers are URL substrings that identify CI/status/coverage badges
// rather than content images.
var badgeMarkers = []string{
	"badge",
	"shield",
	"shields.io",
	"status",
	"travis",
	"circleci",
	"actions/workflows",
	"github.com/badges",
}

// likelyImageMarkers are conventional asset paths for a project's primary
// screenshot.
var likelyImageMarkers = []string{
	"project-image",
	"assets/img",
	"assets/imgs",
	"src/assets",
}

var rasterExts = []string{".png", ".jpg", ".jpeg", ".gif"}

// IsBadgeLike reports whether a URL looks like a CI/status badge. All
// SVGs are treated as badge-suspect; badges dominate SVG usage in READMEs
// and a true SVG screenshot is an accepted false negative.
func IsBadgeLike(url string) bool {
	lower := strings.ToLower(url)
	if strings.HasSuffix(pathOnly(lower), ".svg") {
		return true
	}
	for _, marker := range badgeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// SelectImageCandidate picks the URL most likely to be the primary project
// screenshot, or "" if the document has no image at all.
//
// An explicit screenshots/images/gallery section is trusted outright: its
// first image wins with no badge filtering. Otherwise every image in the
// document is ranked: conventional asset paths with a raster extension
// first, then the first raster non-badge, then the first non-SVG
// non-badge, then whatever came first.
func SelectImageCandidate(root *doctree.Node, vocab Vocabulary) string {
	if root == nil {
		return ""
	}

	section := doctree.SectionAfter(root, func(h *doctree.Node) bool {
		return vocab.Screenshots.MatchString(doctree.FlattenText(h))
	})
	if urls := collectImageURLs(section); len(urls) > 0 {
		return urls[0]
	}

	urls := collectImageURLs(root.Children)
	var firstRaster, firstNonSVG, firstAny string
	for _, u := range urls {
		if isLikelyProjectImage(u) {
			return u
		}
		badge := IsBadgeLike(u)
		if firstRaster == "" && hasRasterExt(u) && !badge {
			firstRaster = u
		}
		if firstNonSVG == "" && !strings.HasSuffix(pathOnly(strings.ToLower(u)), ".svg") && !badge {
			firstNonSVG = u
		}
		if firstAny == "" {
			firstAny = u
		}
	}
	switch {
	case firstRaster != "":
		return firstRaster
	case firstNonSVG != "":
		return firstNonSVG
	default:
		return firstAny
	}
}

func isLikelyProjectImage(url string) bool {
	lower := strings.ToLower(url)
	if !hasRasterExt(lower) {
		return false
	}
	for _, marker := range likelyImageMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func hasRasterExt(url string) bool {
	p := pathOnly(strings.ToLower(url))
	for _, ext := range rasterExts {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// pathOnly drops a query string or fragment so extension checks see the
// actual file name.
func pathOnly(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}

// collectImageURLs walks nodes in document order gathering image sources,
// both Markdown images and <img> tags inside raw HTML.
func collectImageURLs(nodes []*doctree.Node) []string {
	var urls []string
	for _, n := range nodes {
		doctree.Walk(n, func(c *doctree.Node) bool {
			switch c.Kind {
			case doctree.KindImage:
				if c.URL != "" {
					urls = append(urls, c.URL)
				}
			case doctree.KindHTML:
				urls = append(urls, imgSources(c.Value)...)
			}
			return true
		})
	}
	return urls
}

// imgSources pulls src attributes of <img> tags out of a raw HTML
// fragment. Tokenizing tolerates the unclosed, attribute-soup markup
// READMEs tend to contain.
func imgSources(fragment string) []string {
	var srcs []string
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return srcs
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "img" || !hasAttr {
			continue
		}
		for {
			key, val, more := z.TagAttr()
			if string(key) == "src" && len(val) > 0 {
				srcs = append(srcs, string(val))
			}
			if !more {
				break
			}
		}
	}
}
