// Package coordinator owns the game-state transition rules. Every structural
// mutation of the shared document (player list, turn index, status) runs as
// an atomic conditional transaction; the only non-transactional write is the
// AI interjection, whose worst failure mode is a dropped or re-ordered AI
// turn, never a corrupt game.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storyweave/internal/ai"
	"storyweave/internal/game"
	"storyweave/internal/store"
)

// AITurnInterval is how many player turns pass between AI contributions.
const AITurnInterval = 2

// Archiver persists the transcript of a finished game. Best-effort: archive
// failures are logged, never surfaced.
type Archiver interface {
	Archive(ctx context.Context, g *game.Game) error
}

// Coordinator drives one participant's actions against a shared game.
type Coordinator struct {
	store    store.Store
	ai       ai.Completer
	archiver Archiver
	player   game.Player
}

// New builds a coordinator for the given participant. archiver may be nil to
// disable transcript archival.
func New(s store.Store, completer ai.Completer, archiver Archiver, participantID string) *Coordinator {
	return &Coordinator{
		store:    s,
		ai:       completer,
		archiver: archiver,
		player:   game.Player{ID: participantID, Name: game.PlayerName(participantID)},
	}
}

// Player returns the participant this coordinator acts as.
func (c *Coordinator) Player() game.Player {
	return c.player
}

// Create makes a new game under the desired code, or a generated one if
// desired is blank, with the caller as host and sole player. Returns the
// code in play.
//
// The existence check is a precondition read, not an atomic create: two
// simultaneous creators of the same code can both succeed and the later
// write wins. Known gap in the protocol, kept open rather than papered over
// with a conditional create.
func (c *Coordinator) Create(ctx context.Context, desired string) (string, error) {
	code := game.NormalizeCode(desired)
	if code == "" {
		code = game.NewCode()
	}
	exists, err := c.store.Exists(ctx, code)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("game %s: %w", code, ErrAlreadyExists)
	}
	if err := c.store.Create(ctx, code, game.New(code, c.player)); err != nil {
		return "", err
	}
	return code, nil
}

// Join adds the caller to the game. Joining a game you are already in is a
// no-op, so concurrent joins by the same participant cannot duplicate the
// player entry.
func (c *Coordinator) Join(ctx context.Context, code string) error {
	code = game.NormalizeCode(code)
	return c.store.Transact(ctx, code, func(g *game.Game) error {
		if g.HasPlayer(c.player.ID) {
			return store.ErrUnchanged
		}
		g.Players = append(g.Players, c.player)
		g.Story = append(g.Story, game.SystemEntry(c.player.Name+" joined the game!"))
		return nil
	})
}

// Start activates the game. Host-only; the host and player-count checks run
// inside the transaction against the freshest read, not against whatever the
// caller last saw.
func (c *Coordinator) Start(ctx context.Context, code string) error {
	return c.store.Transact(ctx, code, func(g *game.Game) error {
		if g.HostID != c.player.ID {
			return ErrNotHost
		}
		if len(g.Players) == 0 {
			return ErrEmptyGame
		}
		g.Status = game.StatusActive
		g.CurrentPlayerIndex = 0
		g.PlayerTurnsSinceAI = 0
		g.Story = append(g.Story, game.SystemEntry(
			fmt.Sprintf("The story begins! It's %s's turn.", g.Players[0].Name)))
		return nil
	})
}

// SubmitTurn appends the caller's contribution and advances the turn. The
// returned flag tells the caller to follow up with Interject; the AI turn is
// deliberately not part of this transaction (see Interject).
func (c *Coordinator) SubmitTurn(ctx context.Context, code, text string) (aiTurn bool, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return false, ErrEmptyText
	}
	err = c.store.Transact(ctx, code, func(g *game.Game) error {
		if g.Status != game.StatusActive {
			return fmt.Errorf("game is %s: %w", g.Status, ErrGameNotActive)
		}
		cur, ok := g.CurrentPlayer()
		if !ok {
			return ErrEmptyGame
		}
		if cur.ID != c.player.ID {
			return ErrNotYourTurn
		}
		g.Story = append(g.Story, game.PlayerEntry(cur, text))
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
		g.PlayerTurnsSinceAI++
		g.LastTurnTimestamp = time.Time{} // zero so the store re-stamps it
		aiTurn = g.PlayerTurnsSinceAI >= AITurnInterval
		return nil
	})
	if err != nil {
		return false, err
	}
	return aiTurn, nil
}

// Interject asks the AI to continue the story and appends its contribution.
// Runs outside any transaction: the prompt is built from a fresh read and
// the append is a plain update, so a player turn landing in between can
// re-order or even drop the AI entry's counter reset. That gap is accepted
// to keep the external AI call out of the transaction's retry loop. Any
// client that observed the cadence flag may call this; duplicate appends of
// an identical entry collapse under the store's union semantics.
func (c *Coordinator) Interject(ctx context.Context, code string) error {
	g, err := c.store.Read(ctx, code)
	if err != nil {
		return err
	}
	if len(g.Players) == 0 {
		log.Printf("game %s: AI turn triggered but no players remain", code)
		return nil
	}
	text, err := c.ai.Complete(ctx, buildPrompt(g.Story))
	if err != nil {
		return fmt.Errorf("AI failed to contribute, the story continues without it: %w", err)
	}
	return c.store.AppendInterjection(ctx, code, game.AIEntry(text))
}

// Leave removes the caller from the game, repairs the turn index and marks
// the game abandoned when nobody is left. Leaving a game that no longer
// exists is a no-op. An abandoned game's transcript is archived best-effort.
func (c *Coordinator) Leave(ctx context.Context, code string) error {
	var final *game.Game
	err := c.store.Transact(ctx, code, func(g *game.Game) error {
		name := "A player"
		remaining := make([]game.Player, 0, len(g.Players))
		for _, p := range g.Players {
			if p.ID == c.player.ID {
				name = p.Name
				continue
			}
			remaining = append(remaining, p)
		}
		g.Story = append(g.Story, game.SystemEntry(name+" left the game."))
		if len(remaining) == 0 {
			g.Status = game.StatusAbandoned
		} else {
			g.CurrentPlayerIndex = game.RepairIndex(g.Players, g.CurrentPlayerIndex, c.player.ID, remaining)
		}
		g.Players = remaining
		cp := *g
		cp.Players = append([]game.Player(nil), g.Players...)
		cp.Story = append([]game.StoryEntry(nil), g.Story...)
		final = &cp
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if final.Status == game.StatusAbandoned && c.archiver != nil {
		if err := c.archiver.Archive(ctx, final); err != nil {
			log.Printf("game %s: transcript archive failed: %v", code, err)
		}
	}
	return nil
}
