package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"storyweave/internal/game"
)

// Memory is an in-process Store with the same semantics as the Firestore
// backend: serializable transactions, union-append, server-assigned
// timestamps (from the local clock) and push notification of every commit.
// It backs the coordinator tests and the offline mode.
//
// Subscriber callbacks run synchronously under the store lock, so every
// subscriber sees states strictly in commit order. Callbacks must not call
// back into the store.
type Memory struct {
	mu     sync.Mutex
	games  map[string]*game.Game
	subs   map[string]map[int]func(*game.Game)
	nextID int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		games: make(map[string]*game.Game),
		subs:  make(map[string]map[int]func(*game.Game)),
	}
}

func cloneGame(g *game.Game) *game.Game {
	cp := *g
	cp.Players = append([]game.Player(nil), g.Players...)
	cp.Story = append([]game.StoryEntry(nil), g.Story...)
	return &cp
}

// stampServerTimes mirrors the serverTimestamp field behavior: zero values
// are filled in at write time.
func stampServerTimes(g *game.Game) {
	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	if g.LastTurnTimestamp.IsZero() {
		g.LastTurnTimestamp = now
	}
}

// notifyLocked delivers the committed state to subscribers, each with its
// own copy. Called with mu held: delivering inside the commit's critical
// section is what keeps per-subscriber ordering aligned with commit order.
func (m *Memory) notifyLocked(code string, g *game.Game) {
	for _, fn := range m.subs[code] {
		if g == nil {
			fn(nil)
			continue
		}
		fn(cloneGame(g))
	}
}

func (m *Memory) Exists(ctx context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.games[code]
	return ok, nil
}

func (m *Memory) Read(ctx context.Context, code string) (*game.Game, error) {
	m.mu.Lock()
	g, ok := m.games[code]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	cp := cloneGame(g)
	m.mu.Unlock()
	return cp, nil
}

func (m *Memory) Create(ctx context.Context, code string, g *game.Game) error {
	cp := cloneGame(g)
	stampServerTimes(cp)
	m.mu.Lock()
	m.games[code] = cp
	m.notifyLocked(code, cp)
	m.mu.Unlock()
	return nil
}

// Transact serializes on the store lock, so concurrent transactions never
// conflict and ErrConflict is never returned. fn runs on a copy; the copy
// replaces the stored document only when fn succeeds.
func (m *Memory) Transact(ctx context.Context, code string, fn func(g *game.Game) error) error {
	m.mu.Lock()
	g, ok := m.games[code]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	work := cloneGame(g)
	switch err := fn(work); {
	case errors.Is(err, ErrUnchanged):
		m.mu.Unlock()
		return nil
	case err != nil:
		m.mu.Unlock()
		return err
	}
	stampServerTimes(work)
	m.games[code] = work
	m.notifyLocked(code, work)
	m.mu.Unlock()
	return nil
}

func (m *Memory) AppendInterjection(ctx context.Context, code string, entry game.StoryEntry) error {
	m.mu.Lock()
	g, ok := m.games[code]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	// Union semantics: an identical compound value is not appended twice.
	dup := false
	for _, e := range g.Story {
		if e == entry {
			dup = true
			break
		}
	}
	if !dup {
		g.Story = append(g.Story, entry)
	}
	g.PlayerTurnsSinceAI = 0
	g.LastTurnTimestamp = time.Now()
	m.notifyLocked(code, g)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, code string, fn func(g *game.Game)) (func(), error) {
	m.mu.Lock()
	if m.subs[code] == nil {
		m.subs[code] = make(map[int]func(*game.Game))
	}
	id := m.nextID
	m.nextID++
	m.subs[code][id] = fn
	// Like a snapshot listener, deliver the current state up front so a new
	// subscriber does not wait for the next commit. Still under the lock: a
	// commit racing with Subscribe must not reach fn before this does.
	if g, ok := m.games[code]; ok {
		fn(cloneGame(g))
	}
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs[code], id)
		m.mu.Unlock()
	}, nil
}
