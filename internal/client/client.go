// Package client talks to the CipherHack JSON API and formats its
// results for a terminal.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/atinyakov/cipherhack/internal/models"
)

// Generation is the API's answer to a generate or chat request.
type Generation struct {
	Text     string   `json:"text"`
	Messages []string `json:"messages"`
	Failed   bool     `json:"failed"`
}

// Client calls the server at BaseURL.
type Client struct {
	http    *http.Client
	baseURL string
}

// New returns a Client. A nil httpClient uses http.DefaultClient.
func New(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Generate asks the server for hackathon ideas about topic.
func (c *Client) Generate(ctx context.Context, topic string) (*Generation, error) {
	var g Generation
	if err := c.do(ctx, http.MethodPost, "/api/ideas/generate", map[string]string{"topic": topic}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Chat sends a free-text question.
func (c *Client) Chat(ctx context.Context, question string) (*Generation, error) {
	var g Generation
	if err := c.do(ctx, http.MethodPost, "/api/chat", map[string]string{"question": question}, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// SaveIdea stores an idea and returns it with its id.
func (c *Client) SaveIdea(ctx context.Context, content string) (*models.Idea, error) {
	var idea models.Idea
	if err := c.do(ctx, http.MethodPost, "/api/ideas", map[string]string{"content": content}, &idea); err != nil {
		return nil, err
	}
	return &idea, nil
}

// ListIdeas returns every saved idea.
func (c *Client) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	var ideas []models.Idea
	if err := c.do(ctx, http.MethodGet, "/api/ideas", nil, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

// AddTodo adds a task.
func (c *Client) AddTodo(ctx context.Context, task string) error {
	return c.do(ctx, http.MethodPost, "/api/todos", map[string]string{"task": task}, nil)
}

// ListTodos returns every task.
func (c *Client) ListTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// SetTodoDone marks a task done or not done. The server only accepts this
// when toggle write-back is enabled.
func (c *Client) SetTodoDone(ctx context.Context, id models.ID, done bool) error {
	return c.do(ctx, http.MethodPatch, "/api/todos/"+id.String(), map[string]bool{"done": done}, nil)
}

// SaveNote adds a sticky note.
func (c *Client) SaveNote(ctx context.Context, content string) error {
	return c.do(ctx, http.MethodPost, "/api/notes", map[string]string{"content": content}, nil)
}

// ListNotes returns every note.
func (c *Client) ListNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := c.do(ctx, http.MethodGet, "/api/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error: %s", strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}
