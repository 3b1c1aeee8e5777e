package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/cipherhack/internal/models"
	"github.com/atinyakov/cipherhack/internal/repository"
	"github.com/atinyakov/cipherhack/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// IdeaService generates hackathon ideas and chat answers.
type IdeaService interface {
	Generate(ctx context.Context, topic string) service.Generation
	Chat(ctx context.Context, question string) service.Generation
}

// WorkspaceService persists ideas, todos and notes.
type WorkspaceService interface {
	SaveIdea(ctx context.Context, content string) (*models.Idea, error)
	ListIdeas(ctx context.Context) ([]models.Idea, error)
	SaveNote(ctx context.Context, content string) error
	AddTodo(ctx context.Context, task string) error
	ListTodos(ctx context.Context) ([]models.Todo, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
	SetTodoDone(ctx context.Context, id models.ID, done bool) error
}

// GenerationResponse is the JSON form of a service.Generation.
type GenerationResponse struct {
	Text     string   `json:"text"`
	Messages []string `json:"messages"`
	Failed   bool     `json:"failed"`
}

// NewGenerationResponse converts g for the wire. Messages is never null.
func NewGenerationResponse(g service.Generation) GenerationResponse {
	msgs := g.Messages
	if msgs == nil {
		msgs = []string{}
	}
	return GenerationResponse{Text: g.Text, Messages: msgs, Failed: g.Failed()}
}

// APIHandler serves the JSON API under /api.
type APIHandler struct {
	Ideas     IdeaService
	Workspace WorkspaceService
	Logger    *zap.Logger
}

type topicRequest struct {
	Topic string `json:"topic"`
}

type questionRequest struct {
	Question string `json:"question"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type taskRequest struct {
	Task string `json:"task"`
}

type doneRequest struct {
	Done *bool `json:"done"`
}

// Generate handles POST /api/ideas/generate.
func (h *APIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, NewGenerationResponse(h.Ideas.Generate(r.Context(), req.Topic)))
}

// Chat handles POST /api/chat.
func (h *APIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, NewGenerationResponse(h.Ideas.Chat(r.Context(), req.Question)))
}

// ListIdeas handles GET /api/ideas.
func (h *APIHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.Workspace.ListIdeas(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ideas)
}

// SaveIdea handles POST /api/ideas and returns the stored idea.
func (h *APIHandler) SaveIdea(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	idea, err := h.Workspace.SaveIdea(r.Context(), req.Content)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idea)
}

// ListTodos handles GET /api/todos.
func (h *APIHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.Workspace.ListTodos(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// AddTodo handles POST /api/todos.
func (h *APIHandler) AddTodo(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Task) == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Workspace.AddTodo(r.Context(), req.Task); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// SetTodoDone handles PATCH /api/todos/{id}. The route is only mounted
// when toggle write-back is enabled.
func (h *APIHandler) SetTodoDone(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	var req doneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Done == nil || id == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Workspace.SetTodoDone(r.Context(), id, *req.Done); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "todo not found", http.StatusNotFound)
			return
		}
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListNotes handles GET /api/notes.
func (h *APIHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Workspace.ListNotes(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// SaveNote handles POST /api/notes.
func (h *APIHandler) SaveNote(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Workspace.SaveNote(r.Context(), req.Content); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) storeError(w http.ResponseWriter, err error) {
	if h.Logger != nil {
		h.Logger.Error("store operation failed", zap.Error(err))
	}
	http.Error(w, err.Error(), http.StatusBadGateway)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
