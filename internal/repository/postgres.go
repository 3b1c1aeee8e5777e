package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/cipherhack/internal/models"
)

// PostgresWorkspaceRepository implements the workspace tables against a
// PostgreSQL database, such as the one behind a Supabase project.
type PostgresWorkspaceRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresWorkspaceRepository creates a repository using the provided *sql.DB.
// db must be a valid connection to a PostgreSQL instance with the schema
// created by db.InitPostgres.
func NewPostgresWorkspaceRepository(db *sql.DB) *PostgresWorkspaceRepository {
	return &PostgresWorkspaceRepository{DB: db}
}

// InsertIdea inserts one row into ideas and returns it with its new id.
func (r *PostgresWorkspaceRepository) InsertIdea(ctx context.Context, content string) (*models.Idea, error) {
	idea := models.Idea{Content: content}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO ideas (content) VALUES ($1) RETURNING id
	`, content).Scan(&idea.ID)
	if err != nil {
		return nil, fmt.Errorf("InsertIdea: %w", err)
	}
	return &idea, nil
}

// ListIdeas selects every row from ideas.
func (r *PostgresWorkspaceRepository) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, content FROM ideas`)
	if err != nil {
		return nil, fmt.Errorf("ListIdeas: %w", err)
	}
	defer rows.Close()

	ideas := []models.Idea{}
	for rows.Next() {
		var idea models.Idea
		if err := rows.Scan(&idea.ID, &idea.Content); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListIdeas: %w", err)
	}
	return ideas, nil
}

// InsertTodo inserts one row into todos with done = false.
func (r *PostgresWorkspaceRepository) InsertTodo(ctx context.Context, task string) (*models.Todo, error) {
	todo := models.Todo{Task: task}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO todos (task, done) VALUES ($1, false) RETURNING id
	`, task).Scan(&todo.ID)
	if err != nil {
		return nil, fmt.Errorf("InsertTodo: %w", err)
	}
	return &todo, nil
}

// ListTodos selects every row from todos.
func (r *PostgresWorkspaceRepository) ListTodos(ctx context.Context) ([]models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, task, done FROM todos`)
	if err != nil {
		return nil, fmt.Errorf("ListTodos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var todo models.Todo
		if err := rows.Scan(&todo.ID, &todo.Task, &todo.Done); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTodos: %w", err)
	}
	return todos, nil
}

// UpdateTodoDone sets done on the todo with the given id. It returns
// ErrNotFound if no row matched.
func (r *PostgresWorkspaceRepository) UpdateTodoDone(ctx context.Context, id models.ID, done bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE todos SET done = $1 WHERE id = $2`, done, string(id))
	if err != nil {
		return fmt.Errorf("UpdateTodoDone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateTodoDone: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertNote inserts one row into notes and returns it with its new id.
func (r *PostgresWorkspaceRepository) InsertNote(ctx context.Context, content string) (*models.Note, error) {
	note := models.Note{Content: content}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO notes (content) VALUES ($1) RETURNING id
	`, content).Scan(&note.ID)
	if err != nil {
		return nil, fmt.Errorf("InsertNote: %w", err)
	}
	return &note, nil
}

// ListNotes selects every row from notes.
func (r *PostgresWorkspaceRepository) ListNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, content FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("ListNotes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Content); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListNotes: %w", err)
	}
	return notes, nil
}

// Close closes the underlying database handle.
func (r *PostgresWorkspaceRepository) Close() error {
	return r.DB.Close()
}
