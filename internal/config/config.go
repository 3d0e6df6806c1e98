// Package config loads the per-vendor environment configuration. An
// .env file is discovered once at load time by walking a fixed list of
// candidate paths; the first one found wins.
package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/askllm/internal/provider/anthropic"
	"github.com/davidbz/askllm/internal/provider/gemini"
	"github.com/davidbz/askllm/internal/provider/openai"
	"github.com/davidbz/askllm/internal/provider/qwen"
)

// Config represents the full adapter configuration.
type Config struct {
	Anthropic anthropic.Config
	Gemini    gemini.Config
	OpenAI    openai.Config
	Qwen      qwen.Config
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	Anthropic *anthropic.Config
	Gemini    *gemini.Config
	OpenAI    *openai.Config
	Qwen      *qwen.Config
}

// envCandidates lists the .env locations searched, nearest first.
func envCandidates() []string {
	candidates := []string{".env", filepath.Join("..", ".env"), filepath.Join("..", "..", ".env")}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ".env"))
	}
	return candidates
}

// Load loads the first discovered environment file and parses
// configuration from the process environment.
func Load() *Config {
	for _, file := range envCandidates() {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
			break
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Anthropic,
		&cfg.Gemini,
		&cfg.OpenAI,
		&cfg.Qwen,
	}
}
