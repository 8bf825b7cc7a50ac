// Package ai wraps the text-completion service that writes the storyteller's
// contributions.
package ai

import (
	"context"
	"errors"
)

// Fallback is appended when the provider answers successfully but the
// response carries no usable text.
const Fallback = "The AI pondered for a moment, then decided to take the story in a new direction..."

// Completer produces a continuation for a prompt. A returned error means the
// provider failed and no contribution exists; an unexpected but successful
// response degrades to Fallback instead of an error, so the turn still lands.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Disabled is the completer used when no API key is configured. Every call
// fails, so triggered AI turns surface a recoverable error and the story
// continues with players only.
type Disabled struct{}

func (Disabled) Complete(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("GEMINI_API_KEY is not configured")
}
