// Package identity issues the opaque participant id for a session.
package identity

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Provider yields a stable opaque participant id, once per session. A
// failure here is fatal to session start.
type Provider interface {
	Authenticate(ctx context.Context) (string, error)
}

// FileProvider keeps the id in a local file so the same participant comes
// back across sessions, the way anonymous sign-in does. The first call
// mints a fresh uuid.
type FileProvider struct {
	Path string
}

func (p *FileProvider) Authenticate(ctx context.Context) (string, error) {
	if data, err := os.ReadFile(p.Path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	id := uuid.NewString()
	if err := os.WriteFile(p.Path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to persist participant id: %w", err)
	}
	return id, nil
}
