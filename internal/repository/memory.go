package repository

import (
	"context"
	"sync"

	"github.com/atinyakov/cipherhack/internal/models"
	"github.com/google/uuid"
)

// MemoryWorkspaceRepository keeps the three tables in process memory.
// Identifiers are random UUIDs. Safe for concurrent use.
type MemoryWorkspaceRepository struct {
	mu    sync.Mutex
	ideas []models.Idea
	todos []models.Todo
	notes []models.Note
}

// NewMemoryWorkspaceRepository returns an empty in-memory store.
func NewMemoryWorkspaceRepository() *MemoryWorkspaceRepository {
	return &MemoryWorkspaceRepository{}
}

func newID() models.ID { return models.ID(uuid.NewString()) }

func (m *MemoryWorkspaceRepository) InsertIdea(_ context.Context, content string) (*models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idea := models.Idea{ID: newID(), Content: content}
	m.ideas = append(m.ideas, idea)
	return &idea, nil
}

func (m *MemoryWorkspaceRepository) ListIdeas(_ context.Context) ([]models.Idea, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(make([]models.Idea, 0, len(m.ideas)), m.ideas...), nil
}

func (m *MemoryWorkspaceRepository) InsertTodo(_ context.Context, task string) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo := models.Todo{ID: newID(), Task: task, Done: false}
	m.todos = append(m.todos, todo)
	return &todo, nil
}

func (m *MemoryWorkspaceRepository) ListTodos(_ context.Context) ([]models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(make([]models.Todo, 0, len(m.todos)), m.todos...), nil
}

func (m *MemoryWorkspaceRepository) UpdateTodoDone(_ context.Context, id models.ID, done bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.todos {
		if m.todos[i].ID == id {
			m.todos[i].Done = done
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryWorkspaceRepository) InsertNote(_ context.Context, content string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	note := models.Note{ID: newID(), Content: content}
	m.notes = append(m.notes, note)
	return &note, nil
}

func (m *MemoryWorkspaceRepository) ListNotes(_ context.Context) ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append(make([]models.Note, 0, len(m.notes)), m.notes...), nil
}

// Close is a no-op.
func (m *MemoryWorkspaceRepository) Close() error { return nil }
