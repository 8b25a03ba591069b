package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env and .env.local from the working directory.
// Variables already present in the process environment are never overwritten.
func loadEnvFiles() error {
	loaded := 0
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("Loaded environment variables", "path", envPath)
			loaded++
		}
	}
	if loaded == 0 {
		return fmt.Errorf("no .env file found")
	}
	return nil
}
