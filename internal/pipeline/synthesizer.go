package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"veocraftpro/internal/credentials"
	"veocraftpro/pkg/ai"
	"veocraftpro/pkg/domain"
)

const (
	imagePromptPrefix = "Cinematic storyboard frame: "
	imagePromptSuffix = ". Professional film storyboard style, clear composition, detailed lighting, high quality render."
	maxScenePromptLen = 200
)

// Synthesizer renders one storyboard image per extracted scene of a prompt.
// The result is assembled per request and never persisted. Every failure
// mode degrades to the fallback image set; Synthesize never returns an error.
type Synthesizer struct {
	creds  credentials.Provider
	images ai.ImageGenerator
}

// NewSynthesizer wires the synthesizer.
func NewSynthesizer(creds credentials.Provider, images ai.ImageGenerator) *Synthesizer {
	return &Synthesizer{creds: creds, images: images}
}

// Synthesize generates the storyboard for a prompt on behalf of the
// requester. Scene image calls run concurrently; results keep extraction
// order and 1-based scene numbering, and one scene's failure never blocks
// the others.
func (s *Synthesizer) Synthesize(ctx context.Context, requesterID string, prompt domain.Prompt) (result []domain.Scene) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("storyboard synthesis panicked, using fallback set",
				"panic", r, "prompt", prompt.ID)
			result = FallbackImageSet()
		}
	}()

	apiKey, ok, err := s.creds.Resolve(domain.CapabilityImageGen, requesterID)
	if err != nil {
		slog.Error("resolve image_gen credential", "err", err, "requester", requesterID)
		return FallbackImageSet()
	}
	if !ok {
		return FallbackImageSet()
	}

	scenes := ExtractScenes(prompt.Content)
	urls := make([]string, len(scenes))

	var g errgroup.Group
	for i, scene := range scenes {
		i, scene := i, scene
		g.Go(func() error {
			url, err := s.images.GenerateImage(ctx, apiKey, imagePrompt(scene))
			if err != nil {
				slog.Warn("scene image generation failed, skipping scene",
					"scene", i+1, "kind", string(ai.KindOf(err)), "err", err)
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	_ = g.Wait()

	result = make([]domain.Scene, 0, len(scenes))
	for i, scene := range scenes {
		if urls[i] == "" {
			continue
		}
		result = append(result, domain.Scene{
			Scene:       i + 1,
			Description: scene,
			ImageURL:    urls[i],
		})
	}
	if len(result) == 0 {
		return FallbackImageSet()
	}
	return result
}

func imagePrompt(scene string) string {
	if len(scene) > maxScenePromptLen {
		scene = scene[:maxScenePromptLen]
	}
	return imagePromptPrefix + scene + imagePromptSuffix
}
