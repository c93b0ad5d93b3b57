// Package config loads runtime defaults from the environment. Values
// here are defaults only; command-line flags take precedence.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the tool's configurable paths and converter settings.
type Config struct {
	WorkspaceDir string
	OutputDir    string
	Format       string
	Pandoc       string
	Stylesheet   string
	PageTimeout  time.Duration
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		WorkspaceDir: getEnv("BOOKBIND_WORKSPACE_DIR", "workspaces"),
		OutputDir:    getEnv("BOOKBIND_OUTPUT_DIR", "epubs"),
		Format:       getEnv("BOOKBIND_FORMAT", "epub3"),
		Pandoc:       getEnv("BOOKBIND_PANDOC", "pandoc"),
		Stylesheet:   getEnv("BOOKBIND_CSS", ""),
		PageTimeout:  time.Duration(getEnvAsInt("BOOKBIND_PAGE_TIMEOUT_SECONDS", 60)) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
