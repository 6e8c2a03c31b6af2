package pipeline

import (
	"regexp"
	"strings"
)

const (
	// Fragments at or under this length are stray headers or empty
	// sections, not scenes.
	minSceneLength = 20
	maxScenes      = 6
)

var (
	sceneSplitRe  = regexp.MustCompile(`\n\n+|\*\*Scene \d+`)
	leadingHeadRe = regexp.MustCompile(`^\*\*[^*]+\*\*`)
)

// ExtractScenes splits prompt content into at most six ordered scene
// descriptions. Split points are runs of blank lines and "**Scene N"
// markers. Pure, no I/O.
func ExtractScenes(content string) []string {
	fragments := sceneSplitRe.Split(content, -1)
	scenes := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		scene := strings.TrimSpace(fragment)
		scene = leadingHeadRe.ReplaceAllString(scene, "")
		scene = strings.TrimSpace(scene)
		if len(scene) <= minSceneLength {
			continue
		}
		scenes = append(scenes, scene)
		if len(scenes) == maxScenes {
			break
		}
	}
	return scenes
}
