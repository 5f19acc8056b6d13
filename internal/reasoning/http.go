package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pautahq/pauta/internal/domain/agenda"
)

// Task names on the wire.
const (
	taskParse            = "parse"
	taskAnalyzeContext   = "analyze_context"
	taskDetectIntent     = "detect_intent"
	taskRankFacts        = "rank_facts"
	taskWorkstreamStatus = "synthesize_workstream_status"
	taskSummarize        = "summarize"
	taskBuildAgenda      = "build_agenda"
	taskReviewQuality    = "review_quality"
)

// HTTPClient talks to the reasoning service over JSON HTTP. Every call
// carries a bounded timeout; the service must never be allowed to hang the
// pipeline indefinitely.
type HTTPClient struct {
	endpoint string
	apiKey   string
	model    string
	timeout  time.Duration
	client   *http.Client
	logger   *slog.Logger
}

// Options configures the HTTP reasoning client.
type Options struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewHTTPClient creates a reasoning client against the given endpoint.
func NewHTTPClient(opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPClient{
		endpoint: opts.Endpoint,
		apiKey:   opts.APIKey,
		model:    opts.Model,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type wireRequest struct {
	Task  string `json:"task"`
	Model string `json:"model,omitempty"`
	Input any    `json:"input"`
}

type wireResponse struct {
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error,omitempty"`
}

func (c *HTTPClient) call(ctx context.Context, task string, input, output any) error {
	if c.endpoint == "" {
		return fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(wireRequest{Task: task, Model: c.model, Input: input})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", task, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building %s request: %w", task, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("reasoning call failed", "task", task, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, task, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("reasoning call rejected", "task", task, "status", resp.StatusCode)
		return fmt.Errorf("%w: %s: status %d: %s", ErrUnavailable, task, resp.StatusCode, msg)
	}

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return fmt.Errorf("%w: %s: decoding response: %v", ErrUnavailable, task, err)
	}
	if wire.Error != "" {
		return fmt.Errorf("%w: %s: %s", ErrUnavailable, task, wire.Error)
	}
	if err := json.Unmarshal(wire.Output, output); err != nil {
		return fmt.Errorf("%w: %s: decoding output: %v", ErrUnavailable, task, err)
	}

	c.logger.Debug("reasoning call completed", "task", task, "elapsed", time.Since(start))
	return nil
}

func (c *HTTPClient) Parse(ctx context.Context, rawQuery, orgID string) (*ParseResult, error) {
	input := map[string]string{"raw_query": rawQuery, "org_id": orgID}
	var out ParseResult
	if err := c.call(ctx, taskParse, input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AnalyzeContext(ctx context.Context, req ContextRequest) (*ContextAnalysis, error) {
	var out ContextAnalysis
	if err := c.call(ctx, taskAnalyzeContext, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DetectIntent(ctx context.Context, req IntentRequest) (*IntentResult, error) {
	var out IntentResult
	if err := c.call(ctx, taskDetectIntent, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RankFacts(ctx context.Context, req RankRequest) (*RankResult, error) {
	var out RankResult
	if err := c.call(ctx, taskRankFacts, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) SynthesizeWorkstreamStatus(ctx context.Context, req StatusRequest) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.call(ctx, taskWorkstreamStatus, req, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *HTTPClient) Summarize(ctx context.Context, req SummaryRequest) (string, error) {
	var out struct {
		Text string `json:"text"`
	}
	if err := c.call(ctx, taskSummarize, req, &out); err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *HTTPClient) BuildAgenda(ctx context.Context, req BuildRequest) (*agenda.Agenda, error) {
	var out agenda.Agenda
	if err := c.call(ctx, taskBuildAgenda, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ReviewQuality(ctx context.Context, req ReviewRequest) (*Review, error) {
	var out Review
	if err := c.call(ctx, taskReviewQuality, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
