// Package archive saves finished-game transcripts to a Supabase table. The
// live game document stays in the store; retention of it is not this
// client's concern.
package archive

import (
	"context"
	"fmt"
	"strings"

	supa "github.com/supabase-community/supabase-go"

	"storyweave/internal/game"
)

// Record matches the 'story_archive' table in Supabase.
type Record struct {
	GameID     string `json:"game_id"`
	Status     string `json:"status"`
	TurnCount  int    `json:"turn_count"`
	Transcript string `json:"transcript"`
}

// Supabase archives transcripts through the Supabase REST API.
type Supabase struct {
	client *supa.Client
}

// NewSupabase connects to the project.
func NewSupabase(url, key string) (*Supabase, error) {
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Supabase: %w", err)
	}
	return &Supabase{client: client}, nil
}

// Archive inserts one row per finished game.
func (s *Supabase) Archive(ctx context.Context, g *game.Game) error {
	turns := 0
	var b strings.Builder
	for _, e := range g.Story {
		if e.Type == game.EntryPlayer || e.Type == game.EntryAI {
			turns++
		}
		fmt.Fprintf(&b, "%s: %s\n", e.AuthorName, e.Text)
	}
	rec := Record{
		GameID:     g.GameID,
		Status:     string(g.Status),
		TurnCount:  turns,
		Transcript: b.String(),
	}

	var inserted []Record
	_, err := s.client.From("story_archive").Insert(rec, false, "", "", "").ExecuteTo(&inserted)
	if err != nil {
		return fmt.Errorf("failed to archive game %s: %w", g.GameID, err)
	}
	if len(inserted) == 0 {
		return fmt.Errorf("game %s was not archived, but no error was returned", g.GameID)
	}
	return nil
}
