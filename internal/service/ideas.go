// Package service provides the idea generator and the workspace gateway,
// delegating to an injected generation client and table-store repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/cipherhack/internal/genai"
	"go.uber.org/zap"
)

// Fallback texts returned in place of generated ideas.
const (
	FallbackUnavailable = "Unable to generate ideas at the moment. Please try again later."
	FallbackUnexpected  = "An unexpected error occurred. Please try again later."
)

const ideasPrompt = `Give hackathon winning ideas related to %s. Please provide:
    - At least 5 innovative ideas
    - Each idea should be briefly described in a bullet point
    - Focus on feasibility for a hackathon timeframe
    - Include a mix of software, hardware, and potential AI applications
    - Consider current trends and potential social impact`

// ChatMode selects how chat questions are turned into prompts.
type ChatMode string

const (
	// ChatModeIdeas wraps chat questions in the hackathon ideas prompt.
	ChatModeIdeas ChatMode = "ideas"
	// ChatModeDirect sends chat questions unchanged.
	ChatModeDirect ChatMode = "direct"
)

// ContentGenerator sends one prompt to the generation endpoint.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Generation is the outcome of a Generate or Chat call. Text is always
// displayable: either the model output verbatim or a fallback string.
type Generation struct {
	Text string
	// Messages are user-visible error lines, empty on success.
	Messages []string
	// Err is the classified failure, nil on success.
	Err error
}

// Failed reports whether Text is a fallback string.
func (g Generation) Failed() bool { return g.Err != nil }

// IdeaGenerator turns topics into hackathon idea lists.
type IdeaGenerator struct {
	gen  ContentGenerator
	mode ChatMode
	log  *zap.Logger
}

// NewIdeaGenerator constructs an IdeaGenerator. An unknown mode falls back
// to ChatModeIdeas.
func NewIdeaGenerator(gen ContentGenerator, mode ChatMode, log *zap.Logger) *IdeaGenerator {
	if mode != ChatModeDirect {
		mode = ChatModeIdeas
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &IdeaGenerator{gen: gen, mode: mode, log: log}
}

// IdeasPrompt returns the prompt sent for topic.
func IdeasPrompt(topic string) string {
	return fmt.Sprintf(ideasPrompt, topic)
}

// Generate asks for hackathon ideas about topic. It makes exactly one call
// to the generation endpoint and never returns an error: failures are
// reported through Generation.Messages with a fallback Text. The caller is
// expected to reject empty topics.
func (g *IdeaGenerator) Generate(ctx context.Context, topic string) Generation {
	return g.call(ctx, "generate", IdeasPrompt(topic))
}

// Chat answers a free-text question. In ChatModeIdeas the question goes
// through the same prompt as Generate.
func (g *IdeaGenerator) Chat(ctx context.Context, question string) Generation {
	prompt := question
	if g.mode == ChatModeIdeas {
		prompt = IdeasPrompt(question)
	}
	return g.call(ctx, "chat", prompt)
}

func (g *IdeaGenerator) call(ctx context.Context, op, prompt string) Generation {
	start := time.Now()
	text, err := g.gen.GenerateContent(ctx, prompt)
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("prompt_len", len(prompt)),
		zap.Duration("latency", time.Since(start)),
	}
	if err == nil {
		g.log.Info("generation succeeded", append(fields, zap.Int("text_len", len(text)))...)
		return Generation{Text: text}
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		g.log.Warn("generation API call failed", append(fields, zap.Error(err))...)
		details := apiErr.DetailText()
		if details == "" {
			details = "No additional details"
		}
		return Generation{
			Text: FallbackUnavailable,
			Messages: []string{
				fmt.Sprintf("Error calling Gemini API: %s", apiErr.Error()),
				fmt.Sprintf("Error details: %s", details),
			},
			Err: err,
		}
	}

	g.log.Error("generation failed unexpectedly", append(fields, zap.Error(err))...)
	return Generation{
		Text: FallbackUnexpected,
		Messages: []string{
			fmt.Sprintf("An unexpected error occurred: %s", err.Error()),
			fmt.Sprintf("Error type: %s", errorType(err)),
		},
		Err: err,
	}
}

// errorType names the innermost error's dynamic type, skipping fmt
// wrappers.
func errorType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
