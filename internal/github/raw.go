package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RawFetcher retrieves file contents from the raw content host. A 404 is
// "not available", not an error; callers try the next candidate.
type RawFetcher struct {
	baseURL    string
	httpClient *http.Client
}

func NewRawFetcher() *RawFetcher {
	return &RawFetcher{
		baseURL: "https://raw.githubusercontent.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch returns the text of one file, or ("", nil) when it does not
// exist on that branch.
func (f *RawFetcher) Fetch(ctx context.Context, owner, repo, branch, path string) (string, error) {
	u := f.baseURL + "/" + owner + "/" + repo + "/" + branch + "/" + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(body), nil
}

var readmeCandidates = []struct{ branch, path string }{
	{"main", "README.md"},
	{"main", "readme.md"},
	{"master", "README.md"},
	{"master", "readme.md"},
}

// ReadmeText tries the usual branch and filename spellings and returns
// the first README found, or "" when none exists.
func (f *RawFetcher) ReadmeText(ctx context.Context, owner, repo string) (string, error) {
	for _, c := range readmeCandidates {
		text, err := f.Fetch(ctx, owner, repo, c.branch, c.path)
		if err != nil {
			return "", err
		}
		if text != "" {
			return text, nil
		}
	}
	return "", nil
}

// Download fetches arbitrary bytes (image candidates) from an absolute
// URL and reports the content type alongside.
func (f *RawFetcher) Download(ctx context.Context, url string) ([]byte, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, "", fmt.Errorf("read download: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// Close releases resources.
func (f *RawFetcher) Close() {
	f.httpClient.CloseIdleConnections()
}
