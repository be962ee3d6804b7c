// Package azure implements the completer ports against an Azure OpenAI
// chat-completions deployment.
package azure

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tripdesk/internal/config"
)

const defaultAPIVersion = "2024-05-01-preview"

// Client calls one Azure OpenAI deployment for both vision and text
// completions. It implements port.VisionCompleter and port.TextCompleter.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient creates a client from the OpenAI config. The full request URL is
// derived from the account endpoint, deployment name, and API version.
func NewClient(cfg *config.OpenAIConfig) *Client {
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(cfg.Endpoint, "/"), cfg.Deployment, apiVersion)
	return &Client{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewClientWithEndpoint creates a client pointing at a fully-formed endpoint
// URL (for testing).
func NewClientWithEndpoint(cfg *config.OpenAIConfig, endpoint string) *Client {
	c := NewClient(cfg)
	c.endpoint = endpoint
	return c
}

// CompleteImage sends the image as a base64 data URI alongside the prompt
// and returns the model's raw text reply.
func (c *Client) CompleteImage(ctx context.Context, image []byte, contentType, prompt string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))
	content := []map[string]interface{}{
		{"type": "text", "text": prompt},
		{"type": "image_url", "image_url": map[string]interface{}{"url": dataURI}},
	}
	return c.chat(ctx, []map[string]interface{}{
		{"role": "user", "content": content},
	})
}

// Complete sends a plain text prompt and returns the model's raw reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, []map[string]interface{}{
		{"role": "user", "content": prompt},
	})
}

func (c *Client) chat(ctx context.Context, messages []map[string]interface{}) (string, error) {
	reqBody := map[string]interface{}{
		"messages": messages,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling azure openai: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("azure openai error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	return parseResponse(respBody)
}

// apiResponse models the Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("azure openai error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}
	if resp.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}
	return resp.Choices[0].Message.Content, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
