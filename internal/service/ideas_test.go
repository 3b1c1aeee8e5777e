package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/atinyakov/cipherhack/internal/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	GenerateContentFunc func(ctx context.Context, prompt string) (string, error)
	prompts             []string
}

func (m *mockGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.GenerateContentFunc(ctx, prompt)
}

func TestGenerate_ReturnsTextVerbatim(t *testing.T) {
	want := "1. Smart irrigation\n2. Crop disease detector\n"
	gen := &mockGenerator{GenerateContentFunc: func(context.Context, string) (string, error) {
		return want, nil
	}}

	got := NewIdeaGenerator(gen, ChatModeIdeas, nil).Generate(context.Background(), "agriculture")

	assert.Equal(t, want, got.Text)
	assert.Empty(t, got.Messages)
	assert.False(t, got.Failed())
	require.Len(t, gen.prompts, 1, "exactly one call per request")
	assert.Equal(t, IdeasPrompt("agriculture"), gen.prompts[0])
}

func TestIdeasPrompt(t *testing.T) {
	p := IdeasPrompt("climate")
	assert.True(t, strings.HasPrefix(p, "Give hackathon winning ideas related to climate. Please provide:"))
	assert.Contains(t, p, "At least 5 innovative ideas")
	assert.Contains(t, p, "Consider current trends and potential social impact")
}

func TestGenerate_APIErrorFallsBack(t *testing.T) {
	quota := &genai.APIError{
		StatusCode: http.StatusTooManyRequests,
		Message:    "Resource has been exhausted (e.g. check quota).",
		Details:    []string{`{"@type":"type.googleapis.com/google.rpc.QuotaFailure"}`},
	}
	gen := &mockGenerator{GenerateContentFunc: func(context.Context, string) (string, error) {
		return "", quota
	}}

	got := NewIdeaGenerator(gen, ChatModeIdeas, nil).Generate(context.Background(), "blockchain")

	assert.Equal(t, FallbackUnavailable, got.Text)
	assert.True(t, got.Failed())
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Error calling Gemini API: "+quota.Error(), got.Messages[0])
	assert.Equal(t, `Error details: {"@type":"type.googleapis.com/google.rpc.QuotaFailure"}`, got.Messages[1])
	assert.Len(t, gen.prompts, 1, "no retry")
}

func TestGenerate_APIErrorWithoutDetails(t *testing.T) {
	gen := &mockGenerator{GenerateContentFunc: func(context.Context, string) (string, error) {
		return "", fmt.Errorf("call: %w", &genai.APIError{Message: "connection refused"})
	}}

	got := NewIdeaGenerator(gen, ChatModeIdeas, nil).Generate(context.Background(), "ai")

	assert.Equal(t, FallbackUnavailable, got.Text)
	assert.Equal(t, "Error details: No additional details", got.Messages[1])
}

func TestGenerate_UnexpectedErrorFallsBack(t *testing.T) {
	gen := &mockGenerator{GenerateContentFunc: func(context.Context, string) (string, error) {
		return "", &genai.ResponseError{Reason: "no candidates"}
	}}

	got := NewIdeaGenerator(gen, ChatModeIdeas, nil).Generate(context.Background(), "ai")

	assert.Equal(t, FallbackUnexpected, got.Text)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "An unexpected error occurred: gemini: no candidates", got.Messages[0])
	assert.Equal(t, "Error type: *genai.ResponseError", got.Messages[1])
}

func TestErrorType_UnwrapsToInnermost(t *testing.T) {
	err := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", errors.New("root")))
	assert.Equal(t, "*errors.errorString", errorType(err))
}

func TestChat_Modes(t *testing.T) {
	cases := []struct {
		name       string
		mode       ChatMode
		wantPrompt string
	}{
		{"ideas mode wraps question", ChatModeIdeas, IdeasPrompt("what should I build?")},
		{"direct mode sends question", ChatModeDirect, "what should I build?"},
		{"unknown mode behaves like ideas", ChatMode("bogus"), IdeasPrompt("what should I build?")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &mockGenerator{GenerateContentFunc: func(context.Context, string) (string, error) {
				return "answer", nil
			}}

			got := NewIdeaGenerator(gen, tc.mode, nil).Chat(context.Background(), "what should I build?")

			assert.Equal(t, "answer", got.Text)
			require.Len(t, gen.prompts, 1)
			assert.Equal(t, tc.wantPrompt, gen.prompts[0])
		})
	}
}
