package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/atinyakov/cipherhack/internal/models"
)

// SupabaseWorkspaceRepository talks to a Supabase project's PostgREST API
// at <project URL>/rest/v1.
type SupabaseWorkspaceRepository struct {
	restURL string
	apiKey  string
	client  *http.Client
}

// NewSupabaseWorkspaceRepository returns a repository for the project at
// projectURL authenticated with apiKey. A nil client uses
// http.DefaultClient.
func NewSupabaseWorkspaceRepository(projectURL, apiKey string, client *http.Client) *SupabaseWorkspaceRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &SupabaseWorkspaceRepository{
		restURL: strings.TrimRight(projectURL, "/") + "/rest/v1",
		apiKey:  apiKey,
		client:  client,
	}
}

func (s *SupabaseWorkspaceRepository) InsertIdea(ctx context.Context, content string) (*models.Idea, error) {
	var rows []models.Idea
	if err := s.insert(ctx, models.IdeasTable, map[string]any{"content": content}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("supabase: insert into %s returned no rows", models.IdeasTable)
	}
	return &rows[0], nil
}

func (s *SupabaseWorkspaceRepository) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	ideas := []models.Idea{}
	if err := s.selectAll(ctx, models.IdeasTable, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (s *SupabaseWorkspaceRepository) InsertTodo(ctx context.Context, task string) (*models.Todo, error) {
	var rows []models.Todo
	if err := s.insert(ctx, models.TodosTable, map[string]any{"task": task, "done": false}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("supabase: insert into %s returned no rows", models.TodosTable)
	}
	return &rows[0], nil
}

func (s *SupabaseWorkspaceRepository) ListTodos(ctx context.Context) ([]models.Todo, error) {
	todos := []models.Todo{}
	if err := s.selectAll(ctx, models.TodosTable, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *SupabaseWorkspaceRepository) UpdateTodoDone(ctx context.Context, id models.ID, done bool) error {
	q := url.Values{"id": {"eq." + id.String()}}
	var rows []models.Todo
	if err := s.do(ctx, http.MethodPatch, models.TodosTable, q, map[string]any{"done": done}, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SupabaseWorkspaceRepository) InsertNote(ctx context.Context, content string) (*models.Note, error) {
	var rows []models.Note
	if err := s.insert(ctx, models.NotesTable, map[string]any{"content": content}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("supabase: insert into %s returned no rows", models.NotesTable)
	}
	return &rows[0], nil
}

func (s *SupabaseWorkspaceRepository) ListNotes(ctx context.Context) ([]models.Note, error) {
	notes := []models.Note{}
	if err := s.selectAll(ctx, models.NotesTable, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Close is a no-op; the HTTP client is shared.
func (s *SupabaseWorkspaceRepository) Close() error { return nil }

func (s *SupabaseWorkspaceRepository) insert(ctx context.Context, table string, row, out any) error {
	return s.do(ctx, http.MethodPost, table, nil, row, out)
}

func (s *SupabaseWorkspaceRepository) selectAll(ctx context.Context, table string, out any) error {
	return s.do(ctx, http.MethodGet, table, url.Values{"select": {"*"}}, nil, out)
}

// do performs one PostgREST request. Writes ask for the affected rows back
// so inserts can return the store-assigned id.
func (s *SupabaseWorkspaceRepository) do(ctx context.Context, method, table string, query url.Values, body, out any) error {
	endpoint := s.restURL + "/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("supabase: encode %s row: %w", table, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("supabase: build request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: %s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodePostgRESTError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("supabase: decode %s response: %w", table, err)
	}
	return nil
}

func decodePostgRESTError(resp *http.Response) error {
	perr := &PostgRESTError{Status: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, perr); err != nil || perr.Message == "" {
		perr.Message = strings.TrimSpace(string(b))
	}
	return perr
}
