package pipeline

import "veocraftpro/pkg/domain"

// FallbackTemplate renders the deterministic prompt skeleton used whenever
// text generation is unavailable or fails. Pure function of the idea:
// identical input always yields identical output, and the raw idea appears
// verbatim in the Core Concept line.
func FallbackTemplate(idea string) string {
	return "**Detailed Video Prompt**\n\n" +
		"Core Concept: " + idea + "\n\n" +
		"**Scene 1: Opening Shot**\n" +
		"- Wide establishing shot to set the context\n" +
		"- Natural lighting with warm tones\n" +
		"- Smooth camera movement introducing the main elements\n\n" +
		"**Scene 2: Main Action**\n" +
		"- Medium shots focusing on key interactions\n" +
		"- Dynamic camera angles to maintain engagement\n" +
		"- Clear character motivations and actions\n\n" +
		"**Scene 3: Detail Shots**\n" +
		"- Close-ups highlighting important details\n" +
		"- Shallow depth of field for focus\n" +
		"- Complementary color palette\n\n" +
		"**Scene 4: Resolution**\n" +
		"- Wide shot bringing everything together\n" +
		"- Satisfying conclusion to the narrative\n" +
		"- Memorable final image\n\n" +
		"**Technical Notes:**\n" +
		"- Duration: 30-60 seconds\n" +
		"- Music: Upbeat and engaging\n" +
		"- Pacing: Quick cuts with smooth transitions\n" +
		"- Call-to-action: Clear and compelling"
}

// FallbackImageSet returns the fixed placeholder storyboard used whenever
// image generation is unavailable or wholly unsuccessful.
func FallbackImageSet() []domain.Scene {
	return []domain.Scene{
		{
			Scene:       1,
			Description: "Opening establishing shot",
			ImageURL:    "https://via.placeholder.com/512x512/1f2937/f3f4f6?text=Scene+1",
		},
		{
			Scene:       2,
			Description: "Main character introduction",
			ImageURL:    "https://via.placeholder.com/512x512/374151/f3f4f6?text=Scene+2",
		},
		{
			Scene:       3,
			Description: "Action sequence",
			ImageURL:    "https://via.placeholder.com/512x512/4b5563/f3f4f6?text=Scene+3",
		},
		{
			Scene:       4,
			Description: "Climactic moment",
			ImageURL:    "https://via.placeholder.com/512x512/6b7280/f3f4f6?text=Scene+4",
		},
	}
}
