package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	qrcode "github.com/skip2/go-qrcode"

	"storyweave/internal/ai"
	"storyweave/internal/archive"
	"storyweave/internal/config"
	"storyweave/internal/coordinator"
	"storyweave/internal/game"
	"storyweave/internal/identity"
	"storyweave/internal/store"
)

const (
	opTimeout = 30 * time.Second
	aiTimeout = 60 * time.Second
)

// session is the terminal presentation layer. It renders game state only
// from subscription pushes, never from operation return values, so the
// actor's own writes and everyone else's arrive through the same channel.
type session struct {
	co    *coordinator.Coordinator
	store store.Store

	mu      sync.Mutex
	code    string
	latest  *game.Game
	printed int
	stop    func()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using the environment as-is.")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Bad configuration: %v", err)
	}

	ctx := context.Background()

	provider := &identity.FileProvider{Path: cfg.IdentityFile}
	userID, err := provider.Authenticate(ctx)
	if err != nil {
		log.Fatalf("Authentication failed: %v", err)
	}

	var st store.Store
	if cfg.ProjectID == "" {
		fmt.Println("No FIRESTORE_PROJECT_ID set, running offline on an in-memory store.")
		st = store.NewMemory()
	} else {
		fs, err := store.NewFirestore(ctx, cfg.ProjectID, cfg.Namespace, cfg.CredentialsFile)
		if err != nil {
			log.Fatalf("Failed to connect to Firestore: %v", err)
		}
		defer fs.Close()
		fmt.Println("✅ Successfully connected to Firestore!")
		st = fs
	}

	var completer ai.Completer = ai.Disabled{}
	if cfg.GeminiAPIKey != "" {
		gem, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create Generative client: %v", err)
		}
		defer gem.Close()
		completer = gem
	}

	var archiver coordinator.Archiver
	if cfg.SupabaseURL != "" {
		sb, err := archive.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			log.Printf("Transcript archive unavailable: %v", err)
		} else {
			archiver = sb
		}
	}

	co := coordinator.New(st, completer, archiver, userID)
	s := &session{co: co, store: st}

	fmt.Printf("✅ Signed in as %s (%s)\n", co.Player().Name, userID)
	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		switch strings.ToLower(cmd) {
		case "create":
			s.create(rest)
		case "join":
			s.join(rest)
		case "start":
			s.start()
		case "say":
			s.say(rest)
		case "players":
			s.players()
		case "leave":
			s.leave()
		case "help":
			printHelp()
		case "quit", "exit":
			s.close()
			return
		default:
			fmt.Printf("Unknown command %q. Type 'help'.\n", cmd)
		}
	}
	s.close()
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  create [CODE]   start a new game (code optional)")
	fmt.Println("  join CODE       join an existing game")
	fmt.Println("  start           begin the story (host only)")
	fmt.Println("  say TEXT        add your part when it's your turn")
	fmt.Println("  players         list players in the game")
	fmt.Println("  leave           leave the current game")
	fmt.Println("  quit            exit")
}

func (s *session) create(code string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	created, err := s.co.Create(ctx, code)
	if err != nil {
		fmt.Printf("Failed to create game: %v\n", err)
		return
	}
	fmt.Printf("✅ Game %s created! Share the code with friends:\n", created)
	if qr, err := qrcode.New(created, qrcode.Medium); err == nil {
		fmt.Println(qr.ToSmallString(false))
	}
	s.open(created)
}

func (s *session) join(code string) {
	if strings.TrimSpace(code) == "" {
		fmt.Println("Usage: join CODE")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.co.Join(ctx, code); err != nil {
		fmt.Printf("Failed to join game: %v\n", err)
		return
	}
	code = game.NormalizeCode(code)
	fmt.Printf("✅ Joined game %s!\n", code)
	s.open(code)
}

func (s *session) start() {
	code, ok := s.current()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.co.Start(ctx, code); err != nil {
		fmt.Printf("Failed to start game: %v\n", err)
	}
}

func (s *session) say(text string) {
	code, ok := s.current()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	aiTurn, err := s.co.SubmitTurn(ctx, code, text)
	if err != nil {
		fmt.Printf("Failed to submit your part: %v\n", err)
		return
	}
	if aiTurn {
		fmt.Println("The AI is weaving its magic...")
		aictx, aicancel := context.WithTimeout(context.Background(), aiTimeout)
		defer aicancel()
		if err := s.co.Interject(aictx, code); err != nil {
			fmt.Printf("%v\n", err)
		}
	}
}

func (s *session) players() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		fmt.Println("Not in a game.")
		return
	}
	cur, hasCur := s.latest.CurrentPlayer()
	for _, p := range s.latest.Players {
		marker := ""
		if p.ID == s.co.Player().ID {
			marker = " (you)"
		}
		if s.latest.Status == game.StatusActive && hasCur && p.ID == cur.ID {
			marker += " (current turn)"
		}
		fmt.Printf("  %s%s\n", p.Name, marker)
	}
}

func (s *session) leave() {
	code, ok := s.current()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.co.Leave(ctx, code); err != nil {
		fmt.Printf("Failed to leave game: %v\n", err)
		return
	}
	s.close()
	fmt.Println("You left the game.")
}

func (s *session) current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == "" {
		fmt.Println("Not in a game. Use 'create' or 'join' first.")
		return "", false
	}
	return s.code, true
}

// open switches the session to a game and subscribes to its pushes.
func (s *session) open(code string) {
	s.close()
	stop, err := s.store.Subscribe(context.Background(), code, s.onChange)
	if err != nil {
		fmt.Printf("Failed to watch game %s: %v\n", code, err)
		return
	}
	s.mu.Lock()
	s.code = code
	s.stop = stop
	s.mu.Unlock()
}

func (s *session) close() {
	s.mu.Lock()
	stop := s.stop
	s.code = ""
	s.latest = nil
	s.printed = 0
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// onChange renders each committed state. The story is append-only, so only
// entries past the high-water mark are printed.
func (s *session) onChange(g *game.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g == nil {
		fmt.Println("\nThe game document was deleted.")
		s.latest = nil
		s.printed = 0
		return
	}
	prevStatus := game.Status("")
	if s.latest != nil {
		prevStatus = s.latest.Status
	}
	if s.printed > len(g.Story) {
		// The document was recreated under the same code; start over.
		s.printed = 0
	}
	for _, e := range g.Story[s.printed:] {
		printEntry(e)
	}
	s.printed = len(g.Story)
	s.latest = g

	if g.Status == game.StatusActive {
		if cur, ok := g.CurrentPlayer(); ok && cur.ID == s.co.Player().ID {
			left := coordinator.AITurnInterval - g.PlayerTurnsSinceAI%coordinator.AITurnInterval
			fmt.Printf("Your turn! (AI contributes after %d more player turn(s))\n", left)
		}
	}
	if g.Status == game.StatusAbandoned && prevStatus != game.StatusAbandoned {
		fmt.Println("The game is abandoned.")
	}
}

func printEntry(e game.StoryEntry) {
	switch e.Type {
	case game.EntrySystem:
		fmt.Printf("-- %s --\n", e.Text)
	case game.EntryAI:
		fmt.Printf("✨ %s: %s\n", e.AuthorName, e.Text)
	default:
		fmt.Printf("%s: %s\n", e.AuthorName, e.Text)
	}
}
