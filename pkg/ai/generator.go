package ai

import "context"

// TextGenerator produces text from a system instruction and a user message.
// The API key is passed per call: credentials are resolved per request and
// must not outlive it.
type TextGenerator interface {
	GenerateText(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error)
}

// ImageGenerator produces a single image for a prompt and returns its URL.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, apiKey, prompt string) (string, error)
}
