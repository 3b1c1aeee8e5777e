// Package models defines the records kept in the workspace tables:
// ideas, todos and notes.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a stored record. It is assigned by the table store and is
// opaque to the rest of the application: numeric identity columns, Firestore
// document IDs and UUIDs all fit.
type ID string

// UnmarshalJSON accepts both JSON strings and JSON numbers, since PostgREST
// returns identity columns as numbers.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Scan implements sql.Scanner for integer and text identity columns.
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = ""
	case string:
		*id = ID(v)
	case []byte:
		*id = ID(v)
	case int64:
		*id = ID(strconv.FormatInt(v, 10))
	default:
		return fmt.Errorf("id: cannot scan %T", src)
	}
	return nil
}

// String returns the identifier as a plain string.
func (id ID) String() string { return string(id) }

// Idea is a saved hackathon idea.
type Idea struct {
	// ID is assigned by the store.
	ID ID `json:"id" firestore:"-"`
	// Content is the user-submitted idea text.
	Content string `json:"content" firestore:"content"`
}

// Todo is a workspace task. New todos are always created with Done=false.
type Todo struct {
	ID   ID     `json:"id" firestore:"-"`
	Task string `json:"task" firestore:"task"`
	Done bool   `json:"done" firestore:"done"`
}

// Note is a sticky note. Notes are read-only once created.
type Note struct {
	ID      ID     `json:"id" firestore:"-"`
	Content string `json:"content" firestore:"content"`
}

// Table names shared by every backend.
const (
	IdeasTable = "ideas"
	TodosTable = "todos"
	NotesTable = "notes"
)
