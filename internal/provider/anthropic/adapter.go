// Package anthropic provides an adapter for Anthropic's Claude Messages
// API. It implements the domain.Provider interface, projecting the
// uniform request into the vendor wire format and extracting the answer
// from the first content block of the reply.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/davidbz/askllm/internal/domain"
	"github.com/davidbz/askllm/internal/observability"
	"github.com/davidbz/askllm/internal/retry"
	"github.com/davidbz/askllm/internal/validate"
)

const defaultMaxTokens = 4096

// Provider implements the domain.Provider interface for Claude.
type Provider struct {
	cfg    Config
	client *Client
	policy retry.Policy
}

// NewProvider creates a new Anthropic provider. A missing API key is
// not an error here: the credential precondition is checked per call so
// the CLI can report it as a configuration failure.
func NewProvider(cfg Config) *Provider {
	policy := retry.DefaultPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxAttempts = cfg.MaxRetries
	}

	return &Provider{
		cfg:    cfg,
		client: NewClient(cfg),
		policy: policy,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "claude"
}

// ResolveModel applies model precedence: explicit argument, then the
// CLAUDE_MODEL environment override, then the hardcoded default (both
// folded into cfg.Model at config parse time).
func (p *Provider) ResolveModel(override string) string {
	if override != "" {
		return override
	}
	return p.cfg.Model
}

// Ask sends a single prompt to Claude and returns the answer text.
func (p *Provider) Ask(ctx context.Context, req *domain.AskRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", domain.ErrEmptyPrompt
	}

	logger := observability.FromContext(ctx)

	if p.cfg.APIKey == "" {
		logger.Error("ANTHROPIC_API_KEY not found in environment")
		return "", fmt.Errorf("anthropic: %w", domain.ErrMissingAPIKey)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	payload := messagesRequest{
		Model:       p.ResolveModel(req.Model),
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		Messages:    []message{{Role: "user", Content: req.Prompt}},
	}
	if req.System != "" {
		payload.System = req.System
	}
	// Claude has no native JSON-mode flag; when JSONMode is set, JSON
	// compliance rides on the prompt phrasing and the validator checks
	// the result advisorily.

	backoff := p.policy.InitialBackoff
	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		resp, raw, err := p.client.Messages(ctx, payload)
		if err != nil {
			var apiErr *apiError
			if errors.As(err, &apiErr) {
				if retry.IsRetryableStatus(apiErr.StatusCode) && attempt < p.policy.MaxAttempts {
					logger.Warn("Claude request failed, retrying",
						zap.Int("status", apiErr.StatusCode),
						zap.Int("attempt", attempt),
						zap.Int("max_attempts", p.policy.MaxAttempts),
						zap.Duration("backoff", backoff))
					p.policy.Wait(backoff)
					backoff *= 2
					continue
				}
				logger.Error("Claude request failed",
					zap.Int("status", apiErr.StatusCode),
					zap.String("body", apiErr.Body))
				return "", fmt.Errorf("claude request failed: %w", err)
			}

			// Transport error: retried up to the same limit.
			if attempt < p.policy.MaxAttempts {
				logger.Warn("Claude request error, retrying",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", p.policy.MaxAttempts),
					zap.Duration("backoff", backoff),
					zap.Error(err))
				p.policy.Wait(backoff)
				backoff *= 2
				continue
			}
			logger.Error("Claude request error", zap.Error(err))
			return "", fmt.Errorf("claude request failed: %w", err)
		}

		if len(resp.Content) == 0 {
			logger.Warn("no content blocks found in Claude response",
				zap.ByteString("body", raw))
			return "", fmt.Errorf("claude: %w", domain.ErrMalformedResponse)
		}

		text := resp.Content[0].Text
		if req.JSONMode {
			text = validate.JSONResponse(logger, text, "Claude")
		}
		return text, nil
	}

	return "", fmt.Errorf("claude: all %d attempts failed", p.policy.MaxAttempts)
}
