package main

import (
	"testing"

	"storyweave/internal/ai"
	"storyweave/internal/coordinator"
	"storyweave/internal/game"
	"storyweave/internal/store"
)

func newTestSession() *session {
	st := store.NewMemory()
	co := coordinator.New(st, ai.Disabled{}, nil, "p1-aaaaaaaa")
	return &session{co: co, store: st}
}

func storyOf(n int, code string, host game.Player) *game.Game {
	g := game.New(code, host)
	for len(g.Story) < n {
		g.Story = append(g.Story, game.SystemEntry("filler"))
	}
	return g
}

// A deleted document followed by a recreation under the same code delivers a
// shorter story; the render high-water mark must not outlive the deletion.
func TestOnChangeDeletedThenRecreated(t *testing.T) {
	s := newTestSession()
	host := s.co.Player()

	s.onChange(storyOf(3, "ABCDEF", host))
	if s.printed != 3 {
		t.Fatalf("printed = %d after 3 entries, want 3", s.printed)
	}

	s.onChange(nil)
	if s.printed != 0 {
		t.Fatalf("printed = %d after deletion, want 0", s.printed)
	}

	s.onChange(storyOf(1, "ABCDEF", host))
	if s.printed != 1 {
		t.Errorf("printed = %d after recreation, want 1", s.printed)
	}
}

// A shorter story arriving without an intervening deletion snapshot must
// also render instead of panicking.
func TestOnChangeShorterStoryClamps(t *testing.T) {
	s := newTestSession()
	host := s.co.Player()

	s.onChange(storyOf(3, "ABCDEF", host))
	s.onChange(storyOf(1, "ABCDEF", host))
	if s.printed != 1 {
		t.Errorf("printed = %d after shorter snapshot, want 1", s.printed)
	}
}
