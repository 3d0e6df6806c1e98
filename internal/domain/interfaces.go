package domain

import "context"

// Provider represents any LLM vendor adapter.
type Provider interface {
	// Ask sends a single prompt and returns the extracted answer text.
	Ask(ctx context.Context, req *AskRequest) (string, error)

	// Name returns the provider identifier.
	Name() string

	// ResolveModel applies model precedence: explicit override >
	// vendor env override > hardcoded default.
	ResolveModel(override string) string
}

// StreamingProvider is implemented by adapters that can deliver the
// answer as a lazy sequence of fragments instead of a single value.
type StreamingProvider interface {
	Provider

	// AskStream sends a prompt and returns a finite, non-restartable
	// channel of incremental fragments. thinking enables the optional
	// reasoning channel.
	AskStream(ctx context.Context, req *AskRequest, thinking bool) (<-chan StreamChunk, error)
}

// ProviderRegistry manages available providers.
type ProviderRegistry interface {
	// Register adds a provider to the registry.
	Register(ctx context.Context, provider Provider) error

	// Get retrieves a provider by name.
	Get(ctx context.Context, providerName string) (Provider, error)

	// List returns all available provider names.
	List(ctx context.Context) ([]string, error)
}
