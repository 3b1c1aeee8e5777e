// Package repository provides the table-store backends behind the
// workspace: Supabase (PostgREST), PostgreSQL, Cloud Firestore and an
// in-process memory store.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update targets a row that does not exist.
var ErrNotFound = errors.New("record not found")

// PostgRESTError is a non-2xx response from the Supabase REST API.
type PostgRESTError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *PostgRESTError) Error() string {
	msg := fmt.Sprintf("supabase: status %d", e.Status)
	if e.Code != "" {
		msg += " " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}
