package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/cipherhack/internal/middleware"
	"github.com/atinyakov/cipherhack/internal/models"
	"github.com/atinyakov/cipherhack/internal/repository"
	"github.com/atinyakov/cipherhack/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// User-facing texts.
const (
	msgEnterTopic = "Please enter a topic before generating ideas."
	msgEnterIdea  = "Please enter an idea before saving."
	msgEnterTask  = "Please enter a task."
	msgEnterNote  = "Please enter a note."
	msgIdeaSaved  = "Idea saved successfully!"
	msgTaskAdded  = "Task added!"
	msgNoteAdded  = "Note added!"
)

// PageHandler serves the "Idea Generation" and "Workspace" pages.
type PageHandler struct {
	Ideas     IdeaService
	Workspace WorkspaceService
	Renderer  *Renderer
	Logger    *zap.Logger
	// PersistTodoToggle enables writing checkbox changes back to the store.
	PersistTodoToggle bool
}

type pageData struct {
	Title   string
	Active  string
	Flashes []middleware.Flash
	Error   string

	Topic   string
	Warning string
	Result  *service.Generation
	Ideas   []models.Idea

	Todos             []models.Todo
	Notes             []models.Note
	PersistTodoToggle bool
	Question          string
	Answer            *service.Generation
}

// Index redirects to the idea generation page.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/ideas", http.StatusSeeOther)
}

// IdeasPage handles GET /ideas.
func (h *PageHandler) IdeasPage(w http.ResponseWriter, r *http.Request) {
	h.renderIdeas(w, r, h.ideasData(w, r))
}

// GenerateIdeas handles POST /ideas/generate. An empty topic is rejected
// here, before the generator is called.
func (h *PageHandler) GenerateIdeas(w http.ResponseWriter, r *http.Request) {
	data := h.ideasData(w, r)
	data.Topic = r.FormValue("topic")
	if strings.TrimSpace(data.Topic) == "" {
		data.Warning = msgEnterTopic
		h.renderIdeas(w, r, data)
		return
	}
	result := h.Ideas.Generate(r.Context(), data.Topic)
	data.Result = &result
	h.renderIdeas(w, r, data)
}

// SaveIdea handles POST /ideas.
func (h *PageHandler) SaveIdea(w http.ResponseWriter, r *http.Request) {
	content := r.FormValue("content")
	if strings.TrimSpace(content) == "" {
		h.flashAndRedirect(w, r, middleware.FlashWarning, msgEnterIdea, "/ideas")
		return
	}
	if _, err := h.Workspace.SaveIdea(r.Context(), content); err != nil {
		h.storeError(w, r, "ideas", err)
		return
	}
	h.flashAndRedirect(w, r, middleware.FlashSuccess, msgIdeaSaved, "/ideas")
}

// WorkspacePage handles GET /workspace.
func (h *PageHandler) WorkspacePage(w http.ResponseWriter, r *http.Request) {
	h.renderWorkspace(w, r, h.workspaceData(w, r))
}

// AddTodo handles POST /workspace/todos.
func (h *PageHandler) AddTodo(w http.ResponseWriter, r *http.Request) {
	task := r.FormValue("task")
	if strings.TrimSpace(task) == "" {
		h.flashAndRedirect(w, r, middleware.FlashWarning, msgEnterTask, "/workspace")
		return
	}
	if err := h.Workspace.AddTodo(r.Context(), task); err != nil {
		h.storeError(w, r, "workspace", err)
		return
	}
	h.flashAndRedirect(w, r, middleware.FlashSuccess, msgTaskAdded, "/workspace")
}

// SetTodoDone handles POST /workspace/todos/{id}/done.
func (h *PageHandler) SetTodoDone(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "id"))
	done := r.FormValue("done") == "true" || r.FormValue("done") == "on"
	if err := h.Workspace.SetTodoDone(r.Context(), id, done); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(w, r, http.StatusNotFound, "workspace", "Task not found.")
			return
		}
		h.storeError(w, r, "workspace", err)
		return
	}
	http.Redirect(w, r, "/workspace", http.StatusSeeOther)
}

// SaveNote handles POST /workspace/notes.
func (h *PageHandler) SaveNote(w http.ResponseWriter, r *http.Request) {
	content := r.FormValue("content")
	if strings.TrimSpace(content) == "" {
		h.flashAndRedirect(w, r, middleware.FlashWarning, msgEnterNote, "/workspace")
		return
	}
	if err := h.Workspace.SaveNote(r.Context(), content); err != nil {
		h.storeError(w, r, "workspace", err)
		return
	}
	h.flashAndRedirect(w, r, middleware.FlashSuccess, msgNoteAdded, "/workspace")
}

// Chat handles POST /workspace/chat and renders the answer in the side
// panel next to the workspace.
func (h *PageHandler) Chat(w http.ResponseWriter, r *http.Request) {
	question := r.FormValue("question")
	if strings.TrimSpace(question) == "" {
		http.Redirect(w, r, "/workspace", http.StatusSeeOther)
		return
	}
	data := h.workspaceData(w, r)
	data.Question = question
	answer := h.Ideas.Chat(r.Context(), question)
	data.Answer = &answer
	h.renderWorkspace(w, r, data)
}

func (h *PageHandler) ideasData(w http.ResponseWriter, r *http.Request) pageData {
	return pageData{
		Title:   "Idea Generation",
		Active:  "ideas",
		Flashes: middleware.Flashes(w, r),
	}
}

func (h *PageHandler) workspaceData(w http.ResponseWriter, r *http.Request) pageData {
	return pageData{
		Title:             "Workspace",
		Active:            "workspace",
		Flashes:           middleware.Flashes(w, r),
		PersistTodoToggle: h.PersistTodoToggle,
	}
}

// renderIdeas fetches saved ideas and renders the ideas page.
func (h *PageHandler) renderIdeas(w http.ResponseWriter, r *http.Request, data pageData) {
	ideas, err := h.Workspace.ListIdeas(r.Context())
	if err != nil {
		h.storeError(w, r, "ideas", err)
		return
	}
	data.Ideas = ideas
	h.render(w, http.StatusOK, "ideas.html", data)
}

// renderWorkspace fetches todos and notes fresh and renders the workspace.
func (h *PageHandler) renderWorkspace(w http.ResponseWriter, r *http.Request, data pageData) {
	todos, err := h.Workspace.ListTodos(r.Context())
	if err != nil {
		h.storeError(w, r, "workspace", err)
		return
	}
	notes, err := h.Workspace.ListNotes(r.Context())
	if err != nil {
		h.storeError(w, r, "workspace", err)
		return
	}
	data.Todos = todos
	data.Notes = notes
	h.render(w, http.StatusOK, "workspace.html", data)
}

func (h *PageHandler) flashAndRedirect(w http.ResponseWriter, r *http.Request, level, msg, to string) {
	if err := middleware.AddFlash(w, r, level, msg); err != nil {
		h.logger().Warn("failed to save flash", zap.Error(err))
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *PageHandler) storeError(w http.ResponseWriter, r *http.Request, active string, err error) {
	h.logger().Error("store operation failed", zap.String("path", r.URL.Path), zap.Error(err))
	h.renderError(w, r, http.StatusBadGateway, active, "The table store could not complete the request: "+err.Error())
}

func (h *PageHandler) renderError(w http.ResponseWriter, _ *http.Request, status int, active, msg string) {
	h.render(w, status, "error.html", pageData{Title: "Error", Active: active, Error: msg})
}

func (h *PageHandler) render(w http.ResponseWriter, status int, page string, data pageData) {
	if err := h.Renderer.Render(w, status, page, data); err != nil {
		h.logger().Error("failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *PageHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
