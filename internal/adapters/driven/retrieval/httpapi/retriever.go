// Package httpapi provides a retrieval service adapter over a remote
// passage retrieval API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// Ensure RetrievalService implements the interface.
var _ driven.RetrievalService = (*RetrievalService)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second

	// DefaultRate is the proactive throttle in requests per second.
	DefaultRate = 5.0
)

// Config holds configuration for the remote retrieval service.
type Config struct {
	// BaseURL is the retrieval API endpoint (required).
	BaseURL string

	// APIKey authenticates requests, sent as a bearer token when set.
	APIKey string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond caps outbound requests (default: 5).
	RequestsPerSecond float64
}

// RetrievalService queries a remote retrieval API for relevant passages.
type RetrievalService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// retrieveRequest is the /v1/retrieve request format.
type retrieveRequest struct {
	Scope []string `json:"scope"`
	Query string   `json:"query"`
	Limit int      `json:"limit"`
}

// retrieveResponse is the /v1/retrieve response format.
type retrieveResponse struct {
	Passages []struct {
		ID         string  `json:"id"`
		DocumentID string  `json:"document_id"`
		Text       string  `json:"text"`
		Relevance  float64 `json:"relevance"`
	} `json:"passages"`
	Error string `json:"error,omitempty"`
}

// NewRetrievalService creates a new remote retrieval service.
func NewRetrievalService(cfg Config) (*RetrievalService, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("retrieval: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRate
	}

	return &RetrievalService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

// Close releases resources held by the HTTP client.
func (s *RetrievalService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// Retrieve fetches the most relevant passages for a query within scope.
func (s *RetrievalService) Retrieve(ctx context.Context, scope []string, query string, limit int) ([]driven.Passage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqBody := retrieveRequest{
		Scope: scope,
		Query: query,
		Limit: limit,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/retrieve",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieval error (status %d): %s", resp.StatusCode, string(body))
	}

	var retResp retrieveResponse
	if err := json.Unmarshal(body, &retResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if retResp.Error != "" {
		return nil, fmt.Errorf("retrieval error: %s", retResp.Error)
	}

	passages := make([]driven.Passage, len(retResp.Passages))
	for i, p := range retResp.Passages {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: passage %d missing id", domain.ErrInvalidInput, i)
		}
		passages[i] = driven.Passage{
			ID:         p.ID,
			DocumentID: p.DocumentID,
			Text:       p.Text,
			Relevance:  p.Relevance,
		}
	}
	return passages, nil
}
