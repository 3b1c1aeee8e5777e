package middleware

import (
	"context"
	"encoding/gob"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

type ctxKey string

const storeKey ctxKey = "sessionStore"

var errNoStore = errors.New("no session store in request context")

// SessionName is the cookie holding flash messages.
const SessionName = "cipherhack"

// Flash levels.
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// WithSessions makes store available to AddFlash and Flashes.
func WithSessions(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), storeKey, store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func session(r *http.Request) (*sessions.Session, error) {
	store, ok := r.Context().Value(storeKey).(sessions.Store)
	if !ok {
		return nil, errNoStore
	}
	// Get returns a new session alongside a decode error for stale cookies.
	s, err := store.Get(r, SessionName)
	if s != nil {
		return s, nil
	}
	return nil, err
}

// AddFlash queues a message for the next page and saves the session.
// It must be called before the response header is written.
func AddFlash(w http.ResponseWriter, r *http.Request, level, msg string) error {
	s, err := session(r)
	if err != nil {
		return err
	}
	s.AddFlash(Flash{Level: level, Message: msg})
	return s.Save(r, w)
}

// Flashes pops every queued message. It returns nil when the request has
// no session.
func Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s, err := session(r)
	if err != nil {
		return nil
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		return nil
	}
	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
