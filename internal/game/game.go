package game

import (
	"fmt"
	"time"
)

// Status labels a game's lifecycle phase. The set is open-ended on the wire;
// only these three are ever written by this client.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusAbandoned Status = "abandoned"
)

// EntryType tags who authored a story entry.
type EntryType string

const (
	EntrySystem EntryType = "system"
	EntryPlayer EntryType = "player"
	EntryAI     EntryType = "ai"
)

// AIAuthorName is the display name attached to AI contributions.
const AIAuthorName = "AI Storyteller"

// Player is one participant. Immutable after creation; removed only when the
// participant leaves.
type Player struct {
	ID   string `firestore:"id"`
	Name string `firestore:"name"`
}

// StoryEntry is one immutable line of the shared narrative. Entries carry a
// client-clock timestamp: Firestore does not allow server timestamps inside
// array values, so only the document-level timestamps are server-assigned.
type StoryEntry struct {
	Type       EntryType `firestore:"type"`
	AuthorID   string    `firestore:"authorId,omitempty"`
	AuthorName string    `firestore:"authorName"`
	Text       string    `firestore:"text"`
	Timestamp  time.Time `firestore:"timestamp"`
}

// Game is the single shared document per session. All structural fields are
// mutated only through transactional operations; see the coordinator package.
type Game struct {
	GameID             string       `firestore:"gameId"`
	Players            []Player     `firestore:"players"`
	Story              []StoryEntry `firestore:"story"`
	CurrentPlayerIndex int          `firestore:"currentPlayerIndex"`
	PlayerTurnsSinceAI int          `firestore:"playerTurnsSinceAI"`
	Status             Status       `firestore:"status"`
	HostID             string       `firestore:"hostId"`
	CreatedAt          time.Time    `firestore:"createdAt,serverTimestamp"`
	LastTurnTimestamp  time.Time    `firestore:"lastTurnTimestamp,serverTimestamp"`
}

// PlayerName derives the display name shown for a participant id.
func PlayerName(id string) string {
	short := id
	if len(short) > 5 {
		short = short[:5]
	}
	return "Player-" + short
}

// CurrentPlayer returns the player whose turn it is, or false when the game
// has no players. The stored index is interpreted modulo the player count.
func (g *Game) CurrentPlayer() (Player, bool) {
	if len(g.Players) == 0 {
		return Player{}, false
	}
	return g.Players[g.CurrentPlayerIndex%len(g.Players)], true
}

// HasPlayer reports whether the participant id is already in the player list.
func (g *Game) HasPlayer(id string) bool {
	for _, p := range g.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// SystemEntry builds an informational entry with no author identity.
func SystemEntry(text string) StoryEntry {
	return StoryEntry{
		Type:       EntrySystem,
		AuthorName: "System",
		Text:       text,
		Timestamp:  time.Now(),
	}
}

// PlayerEntry builds a narrative entry authored by p.
func PlayerEntry(p Player, text string) StoryEntry {
	return StoryEntry{
		Type:       EntryPlayer,
		AuthorID:   p.ID,
		AuthorName: p.Name,
		Text:       text,
		Timestamp:  time.Now(),
	}
}

// AIEntry builds a narrative entry contributed by the AI storyteller.
func AIEntry(text string) StoryEntry {
	return StoryEntry{
		Type:       EntryAI,
		AuthorName: AIAuthorName,
		Text:       text,
		Timestamp:  time.Now(),
	}
}

// New seeds a fresh game document: the creator is the only player and the
// host, and the story opens with a system announcement. Timestamps are left
// zero so the store assigns them on first write.
func New(code string, host Player) *Game {
	opening := SystemEntry(fmt.Sprintf(
		"Game %q created by %s. Waiting for the story to begin...", code, host.Name))
	return &Game{
		GameID:             code,
		Players:            []Player{host},
		Story:              []StoryEntry{opening},
		CurrentPlayerIndex: 0,
		PlayerTurnsSinceAI: 0,
		Status:             StatusWaiting,
		HostID:             host.ID,
	}
}
