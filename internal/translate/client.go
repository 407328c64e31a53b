// Package translate turns short English UI strings into German. A thin
// HTTP backend does the actual translation; everything around it is
// caching and batching so the backend is called at most once per unique
// text per repository.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Translation statuses.
const (
	StatusTranslated = "translated"
	StatusCached     = "cached"
	StatusSkipped    = "no-key-or-text"
)

// Result is the outcome of one translation call.
type Result struct {
	Text   string
	Status string
}

// Backend translates a single text. Implementations must treat empty
// input as a skip, not an error.
type Backend interface {
	Translate(ctx context.Context, text string) (Result, error)
}

// Client calls a DeepL-style v2 translate endpoint.
type Client struct {
	apiKey     string
	endpoint   string
	targetLang string
	httpClient *http.Client
}

func NewClient(apiKey, targetLang string) *Client {
	if targetLang == "" {
		targetLang = "DE"
	}
	return &Client{
		apiKey:     apiKey,
		endpoint:   "https://api-free.deepl.com/v2/translate",
		targetLang: targetLang,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
	Message string `json:"message"`
}

// Translate posts text to the translation API. Without an API key or
// with blank text it short-circuits to a skip result, no network call.
func (c *Client) Translate(ctx context.Context, text string) (Result, error) {
	if c.apiKey == "" || strings.TrimSpace(text) == "" {
		return Result{Status: StatusSkipped}, nil
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", c.targetLang)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("translate api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return Result{}, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("translate api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var apiResp deeplResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Translations) == 0 {
		return Result{}, fmt.Errorf("empty translation response")
	}

	return Result{Text: apiResp.Translations[0].Text, Status: StatusTranslated}, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
