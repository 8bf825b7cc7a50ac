// Package store abstracts the shared game document. One document per game
// code; all structural mutation goes through Transact, which gives
// read-modify-write atomicity with retry on conflicting concurrent commits.
package store

import (
	"context"
	"errors"

	"storyweave/internal/game"
)

var (
	// ErrNotFound means no document exists for the game code.
	ErrNotFound = errors.New("game not found")
	// ErrConflict means transaction retries were exhausted under contention.
	// Recoverable: the caller may simply retry the action.
	ErrConflict = errors.New("transaction conflict retries exhausted")
	// ErrUnchanged may be returned from a Transact func to commit nothing.
	// Transact then returns nil. Used for idempotent no-op joins.
	ErrUnchanged = errors.New("no change")
)

// Store is the shared document store keyed by game code.
//
// Transact runs fn against the freshest read of the document and writes the
// mutated document back atomically; on conflict with a concurrent transaction
// the whole fn is retried against a fresh read. Any other error from fn
// aborts the transaction and is returned as-is.
//
// AppendInterjection is the one sanctioned non-transactional write: it
// union-appends an entry, resets playerTurnsSinceAI to zero and refreshes the
// last-turn timestamp in a single plain update. It can race a concurrent
// turn submission's counter increment; a dropped or re-ordered AI turn is
// tolerable, structural corruption is not, which is why nothing else may
// bypass Transact.
//
// Subscribe invokes fn with a fresh copy of the document after every commit,
// including the subscriber's own, and with nil if the document is deleted.
// If the document already exists, fn sees the current state right away.
// The returned func stops delivery.
type Store interface {
	Exists(ctx context.Context, code string) (bool, error)
	Read(ctx context.Context, code string) (*game.Game, error)
	Create(ctx context.Context, code string, g *game.Game) error
	Transact(ctx context.Context, code string, fn func(g *game.Game) error) error
	AppendInterjection(ctx context.Context, code string, entry game.StoryEntry) error
	Subscribe(ctx context.Context, code string, fn func(g *game.Game)) (func(), error)
}
