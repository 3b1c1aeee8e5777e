// Package http provides the HTTP routing, page handlers and JSON API of
// the CipherHack server.
package http

import (
	"net/http"

	"github.com/atinyakov/cipherhack/internal/middleware"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the web UI and the JSON
// API.
//
// Routes:
//
//	GET  /                             → redirect to /ideas
//	GET  /ideas                        → pages.IdeasPage
//	POST /ideas/generate               → pages.GenerateIdeas
//	POST /ideas                        → pages.SaveIdea
//	GET  /workspace                    → pages.WorkspacePage
//	POST /workspace/todos              → pages.AddTodo
//	POST /workspace/todos/{id}/done    → pages.SetTodoDone (toggle enabled only)
//	POST /workspace/notes              → pages.SaveNote
//	POST /workspace/chat               → pages.Chat
//	POST /api/ideas/generate           → api.Generate
//	POST /api/chat                     → api.Chat
//	GET  /api/ideas, POST /api/ideas   → api.ListIdeas, api.SaveIdea
//	GET  /api/todos, POST /api/todos   → api.ListTodos, api.AddTodo
//	PATCH /api/todos/{id}              → api.SetTodoDone (toggle enabled only)
//	GET  /api/notes, POST /api/notes   → api.ListNotes, api.SaveNote
//	GET  /health                       → Health
//
// Middleware chain (applied in order):
//  1. RequestID, RealIP
//  2. WithRequestLogging(logger)
//  3. Recoverer
//  4. WithSessions(store), pages only
//  5. AllowContentType("application/json"), API only
func NewRouter(
	pages *PageHandler,
	api *APIHandler,
	store sessions.Store,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.WithSessions(store))

		r.Get("/", pages.Index)
		r.Get("/ideas", pages.IdeasPage)
		r.Post("/ideas", pages.SaveIdea)
		r.Post("/ideas/generate", pages.GenerateIdeas)

		r.Route("/workspace", func(r chi.Router) {
			r.Get("/", pages.WorkspacePage)
			r.Post("/todos", pages.AddTodo)
			if pages.PersistTodoToggle {
				r.Post("/todos/{id}/done", pages.SetTodoDone)
			}
			r.Post("/notes", pages.SaveNote)
			r.Post("/chat", pages.Chat)
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Only allow requests with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Post("/ideas/generate", api.Generate)
		r.Post("/chat", api.Chat)
		r.Get("/ideas", api.ListIdeas)
		r.Post("/ideas", api.SaveIdea)
		r.Get("/todos", api.ListTodos)
		r.Post("/todos", api.AddTodo)
		if pages.PersistTodoToggle {
			r.Patch("/todos/{id}", api.SetTodoDone)
		}
		r.Get("/notes", api.ListNotes)
		r.Post("/notes", api.SaveNote)
	})

	return r
}
