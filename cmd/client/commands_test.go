package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atinyakov/cipherhack/internal/repository"
	handler "github.com/atinyakov/cipherhack/internal/server/handler/http"
	"github.com/atinyakov/cipherhack/internal/service"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticGenerator struct{ text string }

func (g staticGenerator) GenerateContent(context.Context, string) (string, error) {
	return g.text, nil
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	renderer, err := handler.NewRenderer()
	require.NoError(t, err)

	ideas := service.NewIdeaGenerator(staticGenerator{text: "- drone mapper"}, service.ChatModeIdeas, nil)
	ws := service.NewWorkspace(repository.NewMemoryWorkspaceRepository())
	pages := &handler.PageHandler{Ideas: ideas, Workspace: ws, Renderer: renderer, PersistTodoToggle: true}
	api := &handler.APIHandler{Ideas: ideas, Workspace: ws}

	srv := httptest.NewServer(handler.NewRouter(pages, api, sessions.NewCookieStore([]byte("test-secret-test-secret-test-sec")), zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srvURL, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--url", srvURL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_Generate(t *testing.T) {
	srv := newServer(t)
	out, err := run(t, srv.URL, "", "--raw", "generate", "drones")
	require.NoError(t, err)
	assert.Equal(t, "- drone mapper\n", out)
}

func TestCLI_Chat(t *testing.T) {
	srv := newServer(t)
	out, err := run(t, srv.URL, "", "--raw", "chat", "what", "now?")
	require.NoError(t, err)
	assert.Equal(t, "Gemini: - drone mapper\n", out)
}

func TestCLI_TodoFlow(t *testing.T) {
	srv := newServer(t)

	out, err := run(t, srv.URL, "", "todo", "add", "buy", "snacks")
	require.NoError(t, err)
	assert.Equal(t, "Task added!\n", out)

	out, err = run(t, srv.URL, "", "todo", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "buy snacks")
	assert.Contains(t, out, "[ ]")
	assert.Contains(t, out, "(1 todos)")
}

func TestCLI_NoteFromStdin(t *testing.T) {
	srv := newServer(t)

	out, err := run(t, srv.URL, "remember X\n.\n", "note", "add")
	require.NoError(t, err)
	assert.Contains(t, out, "Note added!")

	out, err = run(t, srv.URL, "", "note", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "remember X")
}

func TestCLI_EmptyNoteRejected(t *testing.T) {
	srv := newServer(t)
	_, err := run(t, srv.URL, "", "note", "add")
	assert.EqualError(t, err, "note must not be empty")
}

func TestCLI_IdeaSaveAndList(t *testing.T) {
	srv := newServer(t)

	out, err := run(t, srv.URL, "", "idea", "save", "drone", "mapper")
	require.NoError(t, err)
	assert.Contains(t, out, "Idea saved successfully!")

	out, err = run(t, srv.URL, "", "idea", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "drone mapper")
}

func TestCLI_TodoDoneUnknown(t *testing.T) {
	srv := newServer(t)
	_, err := run(t, srv.URL, "", "todo", "done", "missing")
	assert.EqualError(t, err, "server error: todo not found")
}

func TestShell_ExecLine(t *testing.T) {
	srv := newServer(t)
	opts := &rootOptions{url: srv.URL, raw: true}
	var out, errOut bytes.Buffer
	ctx := context.Background()

	assert.False(t, execLine(ctx, opts, "", strings.NewReader(""), &out, &errOut))
	assert.False(t, execLine(ctx, opts, "todo add write demo", strings.NewReader(""), &out, &errOut))
	assert.Contains(t, out.String(), "Task added!")

	assert.False(t, execLine(ctx, opts, "todo list", strings.NewReader(""), &out, &errOut))
	assert.Contains(t, out.String(), "write demo")

	assert.False(t, execLine(ctx, opts, "bogus", strings.NewReader(""), &out, &errOut))
	assert.Contains(t, errOut.String(), "error:")

	assert.True(t, execLine(ctx, opts, "exit", strings.NewReader(""), &out, &errOut))
}

func TestRootOptions_Flags(t *testing.T) {
	opts := &rootOptions{url: "http://x", raw: true, width: 100}
	assert.Equal(t, []string{"--url", "http://x", "--ca", "", "--timeout", "0s", "--width", "100", "--raw"}, opts.flags())
}
