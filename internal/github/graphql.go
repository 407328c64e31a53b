// Package github holds the external collaborators the pipeline consumes:
// the GraphQL repository lister, the raw-content fetcher and the HTTP
// probe. The pipeline itself only sees small interfaces over these.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Descriptor is one repository as discovered by the lister. Readme may
// be empty; the pipeline falls back to the raw-content fetcher then.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Readme      string `json:"readme,omitempty"`
}

// Lister discovers an owner's repositories via the GraphQL API: pinned
// repositories first, then the most recently pushed, de-duplicated.
type Lister struct {
	token      string
	endpoint   string
	httpClient *http.Client
}

func NewLister(token string) *Lister {
	return &Lister{
		token:    token,
		endpoint: "https://api.github.com/graphql",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

const listQuery = `
query($owner: String!) {
  repositoryOwner(login: $owner) {
    pinnedItems(first: 6, types: REPOSITORY) {
      nodes {
        ... on Repository { name description url readme: object(expression: "HEAD:README.md") { ... on Blob { text } } }
      }
    }
    repositories(first: 50, orderBy: {field: PUSHED_AT, direction: DESC}, privacy: PUBLIC) {
      nodes {
        name description url readme: object(expression: "HEAD:README.md") { ... on Blob { text } }
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type repoNode struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Readme      *struct {
		Text string `json:"text"`
	} `json:"readme"`
}

type listResponse struct {
	Data struct {
		RepositoryOwner *struct {
			PinnedItems struct {
				Nodes []repoNode `json:"nodes"`
			} `json:"pinnedItems"`
			Repositories struct {
				Nodes []repoNode `json:"nodes"`
			} `json:"repositories"`
		} `json:"repositoryOwner"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ListRepositories returns the owner's repositories, pinned first.
func (l *Lister) ListRepositories(ctx context.Context, owner string) ([]Descriptor, error) {
	body, err := json.Marshal(graphqlRequest{
		Query:     listQuery,
		Variables: map[string]any{"owner": owner},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+l.token)

	resp, err := l.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("graphql: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp listResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", apiResp.Errors[0].Message)
	}
	if apiResp.Data.RepositoryOwner == nil {
		return nil, fmt.Errorf("unknown owner %q", owner)
	}

	seen := map[string]bool{}
	var out []Descriptor
	appendNodes := func(nodes []repoNode) {
		for _, n := range nodes {
			if n.Name == "" || seen[n.Name] {
				continue
			}
			seen[n.Name] = true
			d := Descriptor{Name: n.Name, Description: n.Description, URL: n.URL}
			if n.Readme != nil {
				d.Readme = n.Readme.Text
			}
			out = append(out, d)
		}
	}
	appendNodes(apiResp.Data.RepositoryOwner.PinnedItems.Nodes)
	appendNodes(apiResp.Data.RepositoryOwner.Repositories.Nodes)
	return out, nil
}

// Close releases resources.
func (l *Lister) Close() {
	l.httpClient.CloseIdleConnections()
}
