// Package config reads session configuration from the environment. main
// loads .env first via godotenv, so a local file and real env both work.
package config

import (
	"fmt"
	"os"
)

// Config holds everything the session needs to talk to its backends.
type Config struct {
	// Firestore. ProjectID empty means offline mode on the in-memory store.
	ProjectID       string
	CredentialsFile string
	// Namespace isolates this deployment's documents inside the project.
	Namespace string

	// Gemini. Key empty disables the AI storyteller.
	GeminiAPIKey string
	GeminiModel  string

	// Supabase transcript archive, optional.
	SupabaseURL string
	SupabaseKey string

	// IdentityFile stores the participant id between sessions.
	IdentityFile string
}

const defaultNamespace = "ai-story-weave-local"

// Load pulls config from the environment and applies defaults.
func Load() (Config, error) {
	cfg := Config{
		ProjectID:       os.Getenv("FIRESTORE_PROJECT_ID"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		Namespace:       os.Getenv("STORYWEAVE_NAMESPACE"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     os.Getenv("GEMINI_MODEL"),
		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseKey:     os.Getenv("SUPABASE_KEY"),
		IdentityFile:    os.Getenv("STORYWEAVE_IDENTITY_FILE"),
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}
	if cfg.IdentityFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("cannot locate home directory for identity file: %w", err)
		}
		cfg.IdentityFile = home + "/.storyweave_id"
	}
	if (cfg.SupabaseURL == "") != (cfg.SupabaseKey == "") {
		return Config{}, fmt.Errorf("SUPABASE_URL and SUPABASE_KEY must be set together")
	}
	return cfg, nil
}
