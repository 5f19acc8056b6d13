// Package research provides the optional external search collaborator used
// to supplement retrieval when too few internal facts exist. Calls are
// best-effort: a failed or slow search never blocks the pipeline.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable indicates the search backend could not be reached.
var ErrUnavailable = errors.New("research service unavailable")

// Searcher fetches contextual text about a subject from an external source.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (string, error)
}

// HTTPSearcher talks to a search backend over JSON HTTP with a bounded
// per-call timeout.
type HTTPSearcher struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
	logger   *slog.Logger
}

// Options configures the HTTP searcher.
type Options struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewHTTPSearcher creates a searcher against the given endpoint.
func NewHTTPSearcher(opts Options) *HTTPSearcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSearcher{
		endpoint: opts.Endpoint,
		apiKey:   opts.APIKey,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type searchRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search returns a formatted text summary of external results for the query.
func (s *HTTPSearcher) Search(ctx context.Context, query string, maxResults int) (string, error) {
	if s.endpoint == "" {
		return "", fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
	}
	if maxResults <= 0 {
		maxResults = 3
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := json.Marshal(searchRequest{Query: query, MaxResults: maxResults, IncludeAnswer: true})
	if err != nil {
		return "", fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("research call failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	return formatResults(query, out), nil
}

func formatResults(query string, out searchResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "External context for %q:\n", query)
	if out.Answer != "" {
		b.WriteString(out.Answer)
		b.WriteString("\n")
	}
	for i, r := range out.Results {
		content := r.Content
		if len(content) > 300 {
			content = content[:300] + "..."
		}
		fmt.Fprintf(&b, "%d. %s (%s): %s\n", i+1, r.Title, r.URL, content)
	}
	return b.String()
}
