package coordinator

import (
	"fmt"
	"strings"

	"storyweave/internal/game"
)

const storytellerPrompt = `You are a master storyteller contributing to a collaborative story. Continue the following story, adding an interesting plot twist, a new character, or a change in scenery. Keep your contribution to 1-2 short paragraphs. Do not repeat previous plot points unless you are building on them significantly. Be creative and engaging! Story so far:`

// promptWindow is how many narrative entries the AI sees.
const promptWindow = 10

// buildPrompt assembles the completion prompt from the last promptWindow
// player and AI entries, oldest first. System entries are not narrative and
// are excluded.
func buildPrompt(story []game.StoryEntry) string {
	var lines []string
	for _, e := range story {
		if e.Type == game.EntryPlayer || e.Type == game.EntryAI {
			lines = append(lines, e.AuthorName+": "+e.Text)
		}
	}
	if len(lines) > promptWindow {
		lines = lines[len(lines)-promptWindow:]
	}
	return fmt.Sprintf("%s\n%s\n\nYour contribution (as %q):\n",
		storytellerPrompt, strings.Join(lines, "\n"), game.AIAuthorName)
}
