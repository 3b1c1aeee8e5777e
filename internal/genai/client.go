// Package genai is a minimal client for the Gemini generateContent
// endpoint. It sends one prompt per call and returns the generated text.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
)

// DefaultBaseURL is the public Gemini REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Client calls the generateContent endpoint with an API key.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the model name, e.g. "gemini-1.5-pro".
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Transport: c.http.Transport, Timeout: d}
		}
	}
}

// New returns a Client for the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		model:   DefaultModel,
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type part struct {
	Text string `json:"text,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GenerateContent sends prompt as a single user turn and returns the text
// of the first candidate. Service and transport failures are returned as
// *APIError; anything wrong with a successful response is a *ResponseError
// or a decoding error.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &APIError{Message: friendlyTransportError(err), Err: err}
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return "", newAPIError(resp.StatusCode, err)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(out.Candidates) == 0 {
		reason := "no candidates"
		if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
			reason = "prompt blocked: " + out.PromptFeedback.BlockReason
		}
		return "", &ResponseError{Reason: reason}
	}

	cand := out.Candidates[0]
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", &ResponseError{Reason: "empty candidate", FinishReason: cand.FinishReason}
	}
	return sb.String(), nil
}
