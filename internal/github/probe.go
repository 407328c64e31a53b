package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/repometa/internal/repourl"
)

// Probe issues HEAD-equivalent requests for the image selector and the
// static-pages preference pass. Some static hosts reject HEAD; those get
// a GET with the body discarded.
type Probe struct {
	httpClient *http.Client
}

func NewProbe() *Probe {
	return &Probe{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Head probes url and reports status, content type and frame header.
func (p *Probe) Head(ctx context.Context, url string) (*repourl.ProbeResult, error) {
	res, err := p.do(ctx, http.MethodHead, url)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusMethodNotAllowed {
		return p.do(ctx, http.MethodGet, url)
	}
	return res, nil
}

func (p *Probe) do(ctx context.Context, method, url string) (*repourl.ProbeResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	return &repourl.ProbeResult{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		FrameOptions: resp.Header.Get("X-Frame-Options"),
	}, nil
}

// Close releases resources.
func (p *Probe) Close() {
	p.httpClient.CloseIdleConnections()
}
