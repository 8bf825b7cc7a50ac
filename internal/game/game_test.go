package game

import (
	"strings"
	"testing"
)

func TestNewCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewCode()
		if len(code) != 6 {
			t.Fatalf("code %q has length %d, want 6", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(codeCharset, r) {
				t.Fatalf("code %q contains %q outside the charset", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("100 generated codes were all identical")
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct{ in, want string }{
		{"abcdef", "ABCDEF"},
		{"  AbC12 ", "ABC12"},
		{"", ""},
		{"  ", ""},
		{"my long custom code", "MY LONG CUSTOM CODE"},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.in); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlayerName(t *testing.T) {
	if got := PlayerName("abcdef123"); got != "Player-abcde" {
		t.Errorf("PlayerName = %q, want Player-abcde", got)
	}
	if got := PlayerName("ab"); got != "Player-ab" {
		t.Errorf("short id: PlayerName = %q, want Player-ab", got)
	}
}

func TestNewGame(t *testing.T) {
	host := Player{ID: "host-1", Name: PlayerName("host-1")}
	g := New("ABCDEF", host)

	if g.Status != StatusWaiting {
		t.Errorf("status = %q, want waiting", g.Status)
	}
	if g.HostID != "host-1" {
		t.Errorf("hostId = %q, want host-1", g.HostID)
	}
	if len(g.Players) != 1 || g.Players[0] != host {
		t.Fatalf("players = %v, want just the host", g.Players)
	}
	if g.CurrentPlayerIndex != 0 || g.PlayerTurnsSinceAI != 0 {
		t.Errorf("counters = (%d, %d), want (0, 0)", g.CurrentPlayerIndex, g.PlayerTurnsSinceAI)
	}
	if len(g.Story) != 1 || g.Story[0].Type != EntrySystem {
		t.Fatalf("story = %v, want one system entry", g.Story)
	}
	if !g.CreatedAt.IsZero() {
		t.Error("createdAt should stay zero until the store stamps it")
	}
}

func TestCurrentPlayerModulo(t *testing.T) {
	g := &Game{Players: players("A", "B", "C"), CurrentPlayerIndex: 7}
	cur, ok := g.CurrentPlayer()
	if !ok || cur.ID != "B" {
		t.Errorf("CurrentPlayer with index 7 over 3 players = %v, want B", cur)
	}

	empty := &Game{}
	if _, ok := empty.CurrentPlayer(); ok {
		t.Error("CurrentPlayer on empty game should report false")
	}
}
