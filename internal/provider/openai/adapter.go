// Package openai provides an adapter for OpenAI's chat completions API.
// The system instruction travels as a leading system message; JSON mode
// uses the native response_format flag.
package openai

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

// Provider implements the domain.Provider interface for OpenAI.
type Provider struct {
	cfg    Config
	client *Client
	policy retry.Policy
}

// NewProvider creates a new OpenAI provider.
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
	return "openai"
}

// ResolveModel applies model precedence: explicit argument, then the
// OPENAI_MODEL environment override, then the hardcoded default.
func (p *Provider) ResolveModel(override string) string {
	if override != "" {
		return override
	}
	return p.cfg.Model
}

// Ask sends a single prompt to OpenAI and returns the answer text.
func (p *Provider) Ask(ctx context.Context, req *domain.AskRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", domain.ErrEmptyPrompt
	}

	logger := observability.FromContext(ctx)

	if p.cfg.APIKey == "" {
		logger.Error("OPENAI_API_KEY not found in environment")
		return "", fmt.Errorf("openai: %w", domain.ErrMissingAPIKey)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payload := chatRequest{
		Model:               p.ResolveModel(req.Model),
		Messages:            messages,
		Temperature:         req.Temperature,
		MaxCompletionTokens: maxTokens,
	}
	if req.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	backoff := p.policy.InitialBackoff
	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		resp, raw, err := p.client.ChatCompletions(ctx, payload)
		if err != nil {
			var apiErr *apiError
			if errors.As(err, &apiErr) {
				if retry.IsRetryableStatus(apiErr.StatusCode) && attempt < p.policy.MaxAttempts {
					logger.Warn("OpenAI request failed, retrying",
						zap.Int("status", apiErr.StatusCode),
						zap.Int("attempt", attempt),
						zap.Int("max_attempts", p.policy.MaxAttempts),
						zap.Duration("backoff", backoff))
					p.policy.Wait(backoff)
					backoff *= 2
					continue
				}
				logger.Error("OpenAI request failed",
					zap.Int("status", apiErr.StatusCode),
					zap.String("body", apiErr.Body))
				return "", fmt.Errorf("openai request failed: %w", err)
			}

			if attempt < p.policy.MaxAttempts {
				logger.Warn("OpenAI request error, retrying",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", p.policy.MaxAttempts),
					zap.Duration("backoff", backoff),
					zap.Error(err))
				p.policy.Wait(backoff)
				backoff *= 2
				continue
			}
			logger.Error("OpenAI request error", zap.Error(err))
			return "", fmt.Errorf("openai request failed: %w", err)
		}

		if len(resp.Choices) == 0 {
			logger.Warn("no choices found in OpenAI response",
				zap.ByteString("body", raw))
			return "", fmt.Errorf("openai: %w", domain.ErrMalformedResponse)
		}

		text := resp.Choices[0].Message.Content
		if req.JSONMode {
			text = validate.JSONResponse(logger, text, "OpenAI")
		}
		return text, nil
	}

	return "", fmt.Errorf("openai: all %d attempts failed", p.policy.MaxAttempts)
}
