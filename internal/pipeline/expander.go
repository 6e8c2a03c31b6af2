package pipeline

import (
	"context"
	"log/slog"

	"veocraftpro/internal/credentials"
	"veocraftpro/pkg/ai"
	"veocraftpro/pkg/domain"
)

const expandSystemPrompt = "You are a professional video prompt generator. " +
	"Transform simple ideas into detailed, comprehensive video prompts that include:\n\n" +
	"1. Scene descriptions with specific visual details\n" +
	"2. Camera angles and shot types\n" +
	"3. Character actions and interactions\n" +
	"4. Lighting and mood specifications\n" +
	"5. Audio/soundtrack suggestions\n" +
	"6. Pacing and timing notes\n\n" +
	"Format the output as a multi-paragraph detailed prompt suitable for video production."

// Expander turns a short idea into a long-form structured video prompt.
// It degrades to the deterministic fallback template on every failure mode
// and never returns an error to its caller.
type Expander struct {
	creds     credentials.Provider
	generator ai.TextGenerator
}

// NewExpander wires the expander.
func NewExpander(creds credentials.Provider, generator ai.TextGenerator) *Expander {
	return &Expander{creds: creds, generator: generator}
}

// Expand produces prompt text for the idea on behalf of the requester.
// With no text_llm credential configured, no network attempt is made.
func (e *Expander) Expand(ctx context.Context, requesterID, idea string) string {
	apiKey, ok, err := e.creds.Resolve(domain.CapabilityTextLLM, requesterID)
	if err != nil {
		slog.Error("resolve text_llm credential", "err", err, "requester", requesterID)
		return FallbackTemplate(idea)
	}
	if !ok {
		return FallbackTemplate(idea)
	}

	text, err := e.generator.GenerateText(ctx, apiKey, expandSystemPrompt,
		"Transform this idea into a detailed video prompt: "+idea)
	if err != nil {
		slog.Warn("idea expansion failed, using fallback template",
			"kind", string(ai.KindOf(err)), "err", err)
		return FallbackTemplate(idea)
	}
	return text
}
