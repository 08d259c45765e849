package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/watersight/watersight/internal/provider/resilience"
)

// DefaultBaseURL is the base URL for the backend API.
const DefaultBaseURL = "http://localhost:8000"

// Querier abstracts the query call for testing.
type Querier interface {
	Query(ctx context.Context, req QueryRequest) (*QueryResponse, error)
}

// ClientConfig holds configuration for the assistant client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client will be created. Query retries are disabled by default: a
	// retried LLM call is a second slow, billed call, not a free redo.
	HTTPClient HTTPDoer

	// Timeout for a single query round trip (default: 60s; the backend
	// performs an LLM call per query).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends user queries to the backend and decodes the structured reply.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new assistant client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:       "assistant",
			Timeout:    timeout,
			MaxRetries: 1,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Query submits one user query and returns the backend's structured reply.
func (c *Client) Query(ctx context.Context, qr QueryRequest) (*QueryResponse, error) {
	body, err := json.Marshal(qr)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var result QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return &result, nil
}
