package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL points at a locally running intake backend.
const DefaultBaseURL = "http://127.0.0.1:5000"

// Client talks to the conversation endpoint. It performs no retries;
// recovery is always delegated to the user re-submitting.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Converse sends the full history and returns the structured reply.
// Any transport or non-2xx failure comes back as an error carrying a
// human-readable message for display as an assistant turn.
func (c *Client) Converse(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/conversation", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("conversation call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			return Response{}, fmt.Errorf("backend error %d: %s", resp.StatusCode, envelope.Error)
		}
		return Response{}, fmt.Errorf("backend error %d", resp.StatusCode)
	}

	var parsed Response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Response{}, fmt.Errorf("unmarshal response: %w", err)
	}

	return parsed, nil
}
