package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"storyweave/internal/game"
)

const maxTxAttempts = 5

// Firestore backs the store with a Cloud Firestore document per game. The
// document lives under artifacts/{namespace}/public/data/games/{code}, so
// independent deployments can share a project without colliding.
type Firestore struct {
	client    *firestore.Client
	namespace string
}

// NewFirestore connects to the project. Credentials come from the
// environment unless a service-account file is given.
func NewFirestore(ctx context.Context, projectID, namespace, credentialsFile string) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Firestore: %w", err)
	}
	return &Firestore{client: client, namespace: namespace}, nil
}

// Close releases the underlying client.
func (s *Firestore) Close() error {
	return s.client.Close()
}

func (s *Firestore) doc(code string) *firestore.DocumentRef {
	return s.client.Collection("artifacts").Doc(s.namespace).
		Collection("public").Doc("data").
		Collection("games").Doc(code)
}

func (s *Firestore) Exists(ctx context.Context, code string) (bool, error) {
	snap, err := s.doc(code).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading game %s: %w", code, err)
	}
	return snap.Exists(), nil
}

func (s *Firestore) Read(ctx context.Context, code string) (*game.Game, error) {
	snap, err := s.doc(code).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading game %s: %w", code, err)
	}
	var g game.Game
	if err := snap.DataTo(&g); err != nil {
		return nil, fmt.Errorf("decoding game %s: %w", code, err)
	}
	return &g, nil
}

// Create writes the document unconditionally. The existence precheck lives
// in the coordinator; see the create-game race note there.
func (s *Firestore) Create(ctx context.Context, code string, g *game.Game) error {
	if _, err := s.doc(code).Set(ctx, g); err != nil {
		return fmt.Errorf("creating game %s: %w", code, err)
	}
	return nil
}

func (s *Firestore) Transact(ctx context.Context, code string, fn func(g *game.Game) error) error {
	ref := s.doc(code)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var g game.Game
		if err := snap.DataTo(&g); err != nil {
			return fmt.Errorf("decoding game %s: %w", code, err)
		}
		switch err := fn(&g); {
		case errors.Is(err, ErrUnchanged):
			return nil
		case err != nil:
			return err
		}
		return tx.Set(ref, &g)
	}, firestore.MaxAttempts(maxTxAttempts))
	if status.Code(err) == codes.Aborted {
		return ErrConflict
	}
	return err
}

func (s *Firestore) AppendInterjection(ctx context.Context, code string, entry game.StoryEntry) error {
	_, err := s.doc(code).Update(ctx, []firestore.Update{
		{Path: "story", Value: firestore.ArrayUnion(entry)},
		{Path: "playerTurnsSinceAI", Value: 0},
		{Path: "lastTurnTimestamp", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("appending AI entry to game %s: %w", code, err)
	}
	return nil
}

// Subscribe drives the snapshot listener on a goroutine until stop is called
// or ctx ends. Decode failures are logged and skipped so one bad snapshot
// does not kill the stream.
func (s *Firestore) Subscribe(ctx context.Context, code string, fn func(g *game.Game)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := s.doc(code).Snapshots(ctx)
	go func() {
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("game %s: snapshot stream ended: %v", code, err)
				}
				return
			}
			if !snap.Exists() {
				fn(nil)
				continue
			}
			var g game.Game
			if err := snap.DataTo(&g); err != nil {
				log.Printf("game %s: skipping undecodable snapshot: %v", code, err)
				continue
			}
			fn(&g)
		}
	}()
	return cancel, nil
}
