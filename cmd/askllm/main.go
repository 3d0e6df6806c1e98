package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/dig"

	"github.com/davidbz/askllm/internal/config"
	"github.com/davidbz/askllm/internal/domain"
	"github.com/davidbz/askllm/internal/observability"
	"github.com/davidbz/askllm/internal/provider/anthropic"
	"github.com/davidbz/askllm/internal/provider/gemini"
	"github.com/davidbz/askllm/internal/provider/openai"
	"github.com/davidbz/askllm/internal/provider/qwen"
	"github.com/davidbz/askllm/internal/provider/registry"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(app *App) error {
		return app.Execute()
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Provider Registry
	if err := container.Provide(func() domain.ProviderRegistry {
		return registry.NewRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Vendor adapters. Credentials are checked per call, not here, so
	// every adapter registers even when its key is absent.
	if err := container.Provide(func(cfg *anthropic.Config) *anthropic.Provider {
		return anthropic.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Anthropic provider: %v", err)
	}
	if err := container.Provide(func(cfg *gemini.Config) *gemini.Provider {
		return gemini.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Gemini provider: %v", err)
	}
	if err := container.Provide(func(cfg *openai.Config) *openai.Provider {
		return openai.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide OpenAI provider: %v", err)
	}
	if err := container.Provide(func(cfg *qwen.Config) *qwen.Provider {
		return qwen.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Qwen provider: %v", err)
	}

	// Register adapters with the registry (invoked for side effects)
	if err := container.Invoke(func(
		reg domain.ProviderRegistry,
		claudeProvider *anthropic.Provider,
		geminiProvider *gemini.Provider,
		openaiProvider *openai.Provider,
		qwenProvider *qwen.Provider,
	) error {
		ctx := context.Background()

		providers := []domain.Provider{claudeProvider, geminiProvider, openaiProvider, qwenProvider}
		for _, p := range providers {
			if err := reg.Register(ctx, p); err != nil {
				return fmt.Errorf("failed to register %s provider: %w", p.Name(), err)
			}
		}

		return nil
	}); err != nil {
		log.Fatalf("Failed to register providers: %v", err)
	}

	// CLI
	if err := container.Provide(NewApp); err != nil {
		log.Fatalf("Failed to provide CLI app: %v", err)
	}

	return container
}
