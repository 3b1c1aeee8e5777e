package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/cipherhack/internal/models"
)

// WorkspaceRepository defines the table-store operations needed by the
// Workspace. Each method is a single round trip.
type WorkspaceRepository interface {
	// InsertIdea stores one idea and returns the stored row.
	InsertIdea(ctx context.Context, content string) (*models.Idea, error)
	// ListIdeas returns every idea in no particular order.
	ListIdeas(ctx context.Context) ([]models.Idea, error)
	// InsertTodo stores one todo with done=false.
	InsertTodo(ctx context.Context, task string) (*models.Todo, error)
	// ListTodos returns every todo in no particular order.
	ListTodos(ctx context.Context) ([]models.Todo, error)
	// UpdateTodoDone sets the done flag of one todo.
	UpdateTodoDone(ctx context.Context, id models.ID, done bool) error
	// InsertNote stores one note and returns the stored row.
	InsertNote(ctx context.Context, content string) (*models.Note, error)
	// ListNotes returns every note in no particular order.
	ListNotes(ctx context.Context) ([]models.Note, error)
}

// Workspace is the persistence gateway for ideas, todos and notes. It adds
// no caching, batching or retries: store errors are wrapped and returned to
// the caller, which decides how to surface them.
type Workspace struct {
	repo WorkspaceRepository
}

// NewWorkspace constructs a Workspace over repo.
func NewWorkspace(repo WorkspaceRepository) *Workspace {
	return &Workspace{repo: repo}
}

// SaveIdea inserts an idea and returns the inserted record.
func (w *Workspace) SaveIdea(ctx context.Context, content string) (*models.Idea, error) {
	idea, err := w.repo.InsertIdea(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("save idea: %w", err)
	}
	return idea, nil
}

// ListIdeas returns all saved ideas.
func (w *Workspace) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	ideas, err := w.repo.ListIdeas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return ideas, nil
}

// SaveNote inserts a note.
func (w *Workspace) SaveNote(ctx context.Context, content string) error {
	if _, err := w.repo.InsertNote(ctx, content); err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	return nil
}

// AddTodo inserts a todo with done=false.
func (w *Workspace) AddTodo(ctx context.Context, task string) error {
	if _, err := w.repo.InsertTodo(ctx, task); err != nil {
		return fmt.Errorf("add todo: %w", err)
	}
	return nil
}

// ListTodos returns all todos, fetched fresh on every call.
func (w *Workspace) ListTodos(ctx context.Context) ([]models.Todo, error) {
	todos, err := w.repo.ListTodos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// ListNotes returns all notes, fetched fresh on every call.
func (w *Workspace) ListNotes(ctx context.Context) ([]models.Note, error) {
	notes, err := w.repo.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// SetTodoDone writes a checkbox change back to the store.
func (w *Workspace) SetTodoDone(ctx context.Context, id models.ID, done bool) error {
	if err := w.repo.UpdateTodoDone(ctx, id, done); err != nil {
		return fmt.Errorf("set todo %s done=%t: %w", id, done, err)
	}
	return nil
}
