package client

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/atinyakov/cipherhack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown_Raw(t *testing.T) {
	out, err := RenderMarkdown("**bold**", 80, true)
	require.NoError(t, err)
	assert.Equal(t, "**bold**", out)
}

func TestRenderMarkdown_Styled(t *testing.T) {
	out, err := RenderMarkdown("# Ideas\n\n- one\n- two", 80, false)
	require.NoError(t, err)
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "two")
}

func TestWriteGeneration_Messages(t *testing.T) {
	var buf bytes.Buffer
	err := WriteGeneration(&buf, &Generation{
		Text:     "fallback",
		Messages: []string{"Error calling Gemini API: quota"},
		Failed:   true,
	}, 80, true)
	require.NoError(t, err)
	assert.Equal(t, "error: Error calling Gemini API: quota\nfallback\n", buf.String())
}

func TestWriteTodos(t *testing.T) {
	var buf bytes.Buffer
	WriteTodos(&buf, []models.Todo{{ID: "1", Task: "buy snacks"}, {ID: "2", Task: "demo", Done: true}})

	out := buf.String()
	assert.Contains(t, out, "buy snacks")
	assert.Contains(t, out, "[x]")
	assert.True(t, strings.HasSuffix(out, "(2 todos)\n"))
}

func TestWriteNotes_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteNotes(&buf, nil)
	assert.Equal(t, "(no notes)\n", buf.String())
}

func TestWriteIdeas(t *testing.T) {
	var buf bytes.Buffer
	WriteIdeas(&buf, []models.Idea{{ID: "9", Content: "drone mapper"}})
	assert.Contains(t, buf.String(), "drone mapper")
	assert.Contains(t, buf.String(), "(1 ideas)")
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, defaultWidth, TerminalWidth(f.Fd()))
}
