package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/atinyakov/cipherhack/internal/models"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	maxWidth     = 120
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
)

// TerminalWidth returns the width of the terminal on fd, capped for
// readability, or a default when fd is not a terminal.
func TerminalWidth(fd uintptr) int {
	w, _, err := term.GetSize(int(fd))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return min(w, maxWidth)
}

// Label styles a speaker label such as "Gemini:".
func Label(s string) string {
	return labelStyle.Render(s)
}

// RenderMarkdown formats generated text for a terminal of the given
// width. raw returns the text unchanged.
func RenderMarkdown(text string, width int, raw bool) (string, error) {
	if raw {
		return text, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(text)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// WriteGeneration prints error messages followed by the text.
func WriteGeneration(w io.Writer, g *Generation, width int, raw bool) error {
	for _, m := range g.Messages {
		fmt.Fprintln(w, errorStyle.Render("error:"), m)
	}
	text, err := RenderMarkdown(g.Text, width, raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, ensureNewline(text))
	return err
}

// WriteIdeas prints ideas as a table.
func WriteIdeas(w io.Writer, ideas []models.Idea) {
	t := newTable(w, table.Row{"ID", "Idea"})
	for _, idea := range ideas {
		t.AppendRow(table.Row{idea.ID, idea.Content})
	}
	render(w, t, len(ideas), "ideas")
}

// WriteTodos prints todos as a table.
func WriteTodos(w io.Writer, todos []models.Todo) {
	t := newTable(w, table.Row{"ID", "Done", "Task"})
	for _, todo := range todos {
		mark := "[ ]"
		if todo.Done {
			mark = "[x]"
		}
		t.AppendRow(table.Row{todo.ID, mark, todo.Task})
	}
	render(w, t, len(todos), "todos")
}

// WriteNotes prints notes as a table.
func WriteNotes(w io.Writer, notes []models.Note) {
	t := newTable(w, table.Row{"ID", "Note"})
	for _, note := range notes {
		t.AppendRow(table.Row{note.ID, note.Content})
	}
	render(w, t, len(notes), "notes")
}

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)
	return t
}

func render(w io.Writer, t table.Writer, n int, what string) {
	if n == 0 {
		fmt.Fprintf(w, "(no %s)\n", what)
		return
	}
	t.Render()
	fmt.Fprintf(w, "(%d %s)\n", n, what)
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
