package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/atinyakov/cipherhack/internal/db"
	"github.com/atinyakov/cipherhack/internal/models"
)

// Backend names accepted by Open.
const (
	BackendSupabase  = "supabase"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Store is a workspace table store that owns a connection.
type Store interface {
	InsertIdea(ctx context.Context, content string) (*models.Idea, error)
	ListIdeas(ctx context.Context) ([]models.Idea, error)
	InsertTodo(ctx context.Context, task string) (*models.Todo, error)
	ListTodos(ctx context.Context) ([]models.Todo, error)
	UpdateTodoDone(ctx context.Context, id models.ID, done bool) error
	InsertNote(ctx context.Context, content string) (*models.Note, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
	io.Closer
}

// Config selects and configures a backend.
type Config struct {
	Backend          string
	SupabaseURL      string
	SupabaseKey      string
	DSN              string
	FirestoreProject string
	// HTTPClient is used by the supabase backend. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// Open returns the Store for cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendSupabase, "":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, fmt.Errorf("supabase backend requires url and key")
		}
		return NewSupabaseWorkspaceRepository(cfg.SupabaseURL, cfg.SupabaseKey, cfg.HTTPClient), nil
	case BackendPostgres:
		conn, err := db.InitPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return NewPostgresWorkspaceRepository(conn), nil
	case BackendFirestore:
		return NewFirestoreWorkspaceRepository(ctx, cfg.FirestoreProject)
	case BackendMemory:
		return NewMemoryWorkspaceRepository(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
