package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/atinyakov/cipherhack/internal/models"
	"github.com/atinyakov/cipherhack/internal/repository"
	handler "github.com/atinyakov/cipherhack/internal/server/handler/http"
	"github.com/atinyakov/cipherhack/internal/service"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeIdeaService records calls and returns a fixed generation.
type fakeIdeaService struct {
	topics    []string
	questions []string
	result    service.Generation
}

func (f *fakeIdeaService) Generate(_ context.Context, topic string) service.Generation {
	f.topics = append(f.topics, topic)
	return f.result
}

func (f *fakeIdeaService) Chat(_ context.Context, question string) service.Generation {
	f.questions = append(f.questions, question)
	return f.result
}

// brokenRepo fails every store call.
type brokenRepo struct{}

var errStoreDown = errors.New("store unreachable")

func (brokenRepo) InsertIdea(context.Context, string) (*models.Idea, error) { return nil, errStoreDown }
func (brokenRepo) ListIdeas(context.Context) ([]models.Idea, error)         { return nil, errStoreDown }
func (brokenRepo) InsertTodo(context.Context, string) (*models.Todo, error) { return nil, errStoreDown }
func (brokenRepo) ListTodos(context.Context) ([]models.Todo, error)         { return nil, errStoreDown }
func (brokenRepo) UpdateTodoDone(context.Context, models.ID, bool) error    { return errStoreDown }
func (brokenRepo) InsertNote(context.Context, string) (*models.Note, error) { return nil, errStoreDown }
func (brokenRepo) ListNotes(context.Context) ([]models.Note, error)         { return nil, errStoreDown }

type testServer struct {
	handler http.Handler
	ideas   *fakeIdeaService
	repo    service.WorkspaceRepository
}

func newTestServer(t *testing.T, repo service.WorkspaceRepository, persistToggle bool) *testServer {
	t.Helper()
	renderer, err := handler.NewRenderer()
	require.NoError(t, err)

	if repo == nil {
		repo = repository.NewMemoryWorkspaceRepository()
	}
	ideas := &fakeIdeaService{result: service.Generation{Text: "- **Idea one**\n- Idea two"}}
	ws := service.NewWorkspace(repo)
	logger := zap.NewNop()

	pages := &handler.PageHandler{
		Ideas:             ideas,
		Workspace:         ws,
		Renderer:          renderer,
		Logger:            logger,
		PersistTodoToggle: persistToggle,
	}
	api := &handler.APIHandler{Ideas: ideas, Workspace: ws, Logger: logger}
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

	return &testServer{
		handler: handler.NewRouter(pages, api, store, logger),
		ideas:   ideas,
		repo:    repo,
	}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// follow replays the cookies set by rec on a GET to its Location.
func (s *testServer) follow(rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return s.do(req)
}
