package coordinator

import "errors"

// Operation failures surfaced to the caller. All are recoverable: the user
// may retry, pick a different code, or wait for their turn.
var (
	ErrAlreadyExists = errors.New("game code already exists")
	ErrNotHost       = errors.New("only the host can start the game")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrEmptyGame     = errors.New("no players in the game")
	ErrEmptyText     = errors.New("story contribution is empty")
	ErrGameNotActive = errors.New("game is not active")
)
