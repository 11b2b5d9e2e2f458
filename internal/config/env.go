package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consulted after the config file.
const (
	EnvGitUsername = "CRYPTOGEN_GIT_USERNAME"
	EnvGitToken    = "CRYPTOGEN_GIT_TOKEN"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env and .env.local if present. Variables already set in the
// process environment win.
func loadEnvFiles() {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("could not load env file", slog.String("file", f), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("file", f))
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv(EnvGitUsername); v != "" {
		c.Repository.Username = v
	}
	if v := os.Getenv(EnvGitToken); v != "" {
		c.Repository.Token = v
	}
}
