// Package agent is the HTTP client for the upstream LLM agent microservice.
// Each call is a single stateless forward with a fixed timeout: no retries,
// no circuit breaker, no caching.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable is returned for any transport failure (connection refused,
// timeout). Upstream HTTP error responses become *UpstreamError instead.
var ErrUnavailable = errors.New("agent service unavailable")

// UpstreamError carries an error response from the agent service so the
// gateway can relay its status and message verbatim.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("agent: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// ChatRequest is the gateway-facing chat payload.
type ChatRequest struct {
	Message     string   `json:"message"`
	SessionID   string   `json:"sessionId,omitempty"`
	UserID      string   `json:"userId,omitempty"`
	Model       *string  `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
}

// upstreamChatReq is the agent service's own chat schema.
type upstreamChatReq struct {
	Question    string   `json:"question"`
	Model       *string  `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// Chat forwards one message to the agent and returns the upstream response
// body verbatim.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (json.RawMessage, error) {
	body := upstreamChatReq{
		Question:    req.Message,
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	return c.do(ctx, http.MethodPost, "/api/chat", body)
}

// Status probes the agent's health endpoint.
func (c *Client) Status(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/health", nil)
}

// Tools lists the tools the agent can call.
func (c *Client) Tools(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/api/tools", nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrUnavailable
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(raw, resp.StatusCode),
		}
	}
	return raw, nil
}

// upstreamMessage extracts a human-readable message from an agent error
// body. The agent reports either {"detail": ...} (FastAPI) or
// {"error": ..., "details": ...}.
func upstreamMessage(raw []byte, status int) string {
	var decoded struct {
		Detail  string `json:"detail"`
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(raw, &decoded); err == nil {
		switch {
		case decoded.Detail != "":
			return decoded.Detail
		case decoded.Details != "":
			return decoded.Details
		case decoded.Error != "":
			return decoded.Error
		}
	}
	return fmt.Sprintf("agent returned status %d", status)
}
