// Package repourl rewrites README links into URLs a browser can actually
// fetch. Three hosting conventions are involved: the raw content host
// (direct file bytes), the rendered blob host (platform-rendered view)
// and the static pages host (published site). Which one a link resolves
// to depends on its extension and on whether elevated API credentials are
// available.
package repourl

import (
	"net/url"
	"regexp"
	"strings"
)

const rawHost = "raw.githubusercontent.com"

// allowedDocPath is the safety allowlist: only paths the resolver can
// positively identify as documentation are rewritten to external hosts.
// Everything else passes through untouched so the system never constructs
// arbitrary external URLs it cannot trust.
var allowedDocPath = regexp.MustCompile(`^(?:docs|src/docs|src/main/docs)/.+\.(?:md|html)$`)

// Resolver normalizes repository links for one conventional owner.
type Resolver struct {
	Owner    string
	Branch   string // default branch used when resolving relative paths
	Elevated bool   // elevated API credentials available
}

func NewResolver(owner, branch string, elevated bool) Resolver {
	if branch == "" {
		branch = "main"
	}
	return Resolver{Owner: owner, Branch: branch, Elevated: elevated}
}

// ToAbsolute rewrites href into an absolute, resolvable URL where it can.
//
// Absolute raw-host and blob-host URLs for the resolver's owner are
// rewritten when no elevated credentials are available: .md targets to
// the blob host so they render without authentication, .html targets to
// the pages host. Relative paths are cleaned and resolved against the raw
// host when credentials allow, otherwise only allowlisted documentation
// paths are resolved; anything else comes back as the cleaned relative
// path, unresolved.
func (r Resolver) ToAbsolute(href, repo string) string {
	href = strings.TrimSpace(strings.Trim(href, "<>"))
	if href == "" {
		return ""
	}

	if u, err := url.Parse(href); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if r.Elevated {
			return href
		}
		return r.rewriteAbsolute(href, u)
	}

	rel := cleanRelative(href)
	if rel == "" {
		return ""
	}
	if r.Elevated {
		return r.rawURL(repo, rel)
	}
	if allowedDocPath.MatchString(rel) {
		if strings.HasSuffix(rel, ".html") {
			return r.pagesURL(repo, rel)
		}
		return r.blobURL(repo, rel)
	}
	return rel
}

func (r Resolver) rewriteAbsolute(href string, u *url.URL) string {
	parts := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")

	switch u.Host {
	case rawHost:
		// /{owner}/{repo}/{branch}/{path...}
		if len(parts) < 4 || parts[0] != r.Owner {
			return href
		}
		repo, rel := parts[1], strings.Join(parts[3:], "/")
		if !allowedDocPath.MatchString(rel) {
			return href
		}
		if strings.HasSuffix(rel, ".html") {
			return r.pagesURL(repo, rel)
		}
		return r.blobURL(repo, rel)

	case "github.com":
		// /{owner}/{repo}/blob/{branch}/{path...}
		if len(parts) < 5 || parts[0] != r.Owner || parts[2] != "blob" {
			return href
		}
		repo, rel := parts[1], strings.Join(parts[4:], "/")
		if !allowedDocPath.MatchString(rel) {
			return href
		}
		if strings.HasSuffix(rel, ".html") {
			return r.pagesURL(repo, rel)
		}
		return href // .md already renders on the blob host
	}
	return href
}

// RawContentURL resolves a relative repository path straight to the raw
// content host, regardless of credentials. The documentation allowlist
// does not apply here: it guards links handed to a browser, while raw
// content URLs are fetched server-side for their bytes.
func (r Resolver) RawContentURL(repo, rel string) string {
	rel = cleanRelative(strings.TrimSpace(strings.Trim(rel, "<>")))
	if rel == "" {
		return ""
	}
	return r.rawURL(repo, rel)
}

func (r Resolver) rawURL(repo, rel string) string {
	return "https://" + rawHost + "/" + r.Owner + "/" + repo + "/" + r.Branch + "/" + rel
}

func (r Resolver) blobURL(repo, rel string) string {
	return "https://github.com/" + r.Owner + "/" + repo + "/blob/" + r.Branch + "/" + rel
}

// pagesURL maps a documentation path onto the static pages site. GitHub
// Pages publishes the docs folder at the site root, so a leading docs/
// segment is dropped.
func (r Resolver) pagesURL(repo, rel string) string {
	rel = strings.TrimPrefix(rel, "docs/")
	return "https://" + r.Owner + ".github.io/" + repo + "/" + rel
}

// cleanRelative strips ./ and / prefixes and any ../ traversal segments.
func cleanRelative(p string) string {
	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "/"):
			p = p[1:]
		case strings.HasPrefix(p, "../"):
			p = p[3:]
		default:
			return strings.ReplaceAll(p, "../", "")
		}
	}
}
