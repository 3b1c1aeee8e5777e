package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/atinyakov/cipherhack/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreWorkspaceRepository stores ideas, todos and notes as documents
// in three top-level collections. Document IDs are generated by Firestore.
type FirestoreWorkspaceRepository struct {
	client *firestore.Client
}

// NewFirestoreWorkspaceRepository connects to the given Google Cloud
// project. FIRESTORE_EMULATOR_HOST is honoured by the client library.
func NewFirestoreWorkspaceRepository(ctx context.Context, projectID string) (*FirestoreWorkspaceRepository, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &FirestoreWorkspaceRepository{client: client}, nil
}

// Close releases the Firestore client.
func (fs *FirestoreWorkspaceRepository) Close() error {
	return fs.client.Close()
}

func (fs *FirestoreWorkspaceRepository) InsertIdea(ctx context.Context, content string) (*models.Idea, error) {
	idea := models.Idea{Content: content}
	ref := fs.client.Collection(models.IdeasTable).NewDoc()
	if _, err := ref.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}
	idea.ID = models.ID(ref.ID)
	return &idea, nil
}

func (fs *FirestoreWorkspaceRepository) ListIdeas(ctx context.Context) ([]models.Idea, error) {
	ideas := []models.Idea{}
	err := fs.each(ctx, models.IdeasTable, func(doc *firestore.DocumentSnapshot) error {
		var idea models.Idea
		if err := doc.DataTo(&idea); err != nil {
			return err
		}
		idea.ID = models.ID(doc.Ref.ID)
		ideas = append(ideas, idea)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ideas, nil
}

func (fs *FirestoreWorkspaceRepository) InsertTodo(ctx context.Context, task string) (*models.Todo, error) {
	todo := models.Todo{Task: task, Done: false}
	ref := fs.client.Collection(models.TodosTable).NewDoc()
	if _, err := ref.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	todo.ID = models.ID(ref.ID)
	return &todo, nil
}

func (fs *FirestoreWorkspaceRepository) ListTodos(ctx context.Context) ([]models.Todo, error) {
	todos := []models.Todo{}
	err := fs.each(ctx, models.TodosTable, func(doc *firestore.DocumentSnapshot) error {
		var todo models.Todo
		if err := doc.DataTo(&todo); err != nil {
			return err
		}
		todo.ID = models.ID(doc.Ref.ID)
		todos = append(todos, todo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (fs *FirestoreWorkspaceRepository) UpdateTodoDone(ctx context.Context, id models.ID, done bool) error {
	_, err := fs.client.Collection(models.TodosTable).Doc(id.String()).Update(ctx, []firestore.Update{
		{Path: "done", Value: done},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return nil
}

func (fs *FirestoreWorkspaceRepository) InsertNote(ctx context.Context, content string) (*models.Note, error) {
	note := models.Note{Content: content}
	ref := fs.client.Collection(models.NotesTable).NewDoc()
	if _, err := ref.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	note.ID = models.ID(ref.ID)
	return &note, nil
}

func (fs *FirestoreWorkspaceRepository) ListNotes(ctx context.Context) ([]models.Note, error) {
	notes := []models.Note{}
	err := fs.each(ctx, models.NotesTable, func(doc *firestore.DocumentSnapshot) error {
		var note models.Note
		if err := doc.DataTo(&note); err != nil {
			return err
		}
		note.ID = models.ID(doc.Ref.ID)
		notes = append(notes, note)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// each iterates every document of a collection.
func (fs *FirestoreWorkspaceRepository) each(ctx context.Context, collection string, fn func(*firestore.DocumentSnapshot) error) error {
	iter := fs.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to iterate %s: %w", collection, err)
		}
		if err := fn(doc); err != nil {
			return fmt.Errorf("failed to unmarshal %s document %s: %w", collection, doc.Ref.ID, err)
		}
	}
}
