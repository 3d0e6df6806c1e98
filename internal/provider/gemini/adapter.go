// Package gemini provides an adapter for Google's Gemini generateContent
// API. The answer is extracted from the first part of the first
// candidate; JSON mode is requested natively via responseMimeType.
package gemini

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

const defaultMaxTokens = 8192

// Provider implements the domain.Provider interface for Gemini.
type Provider struct {
	cfg    Config
	client *Client
	policy retry.Policy
}

// NewProvider creates a new Gemini provider.
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
	return "gemini"
}

// ResolveModel applies model precedence and strips an optional
// "models/" prefix, since the endpoint URL already carries it.
func (p *Provider) ResolveModel(override string) string {
	model := p.cfg.Model
	if override != "" {
		model = override
	}
	return strings.TrimPrefix(model, "models/")
}

// Ask sends a single prompt to Gemini and returns the answer text.
func (p *Provider) Ask(ctx context.Context, req *domain.AskRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", domain.ErrEmptyPrompt
	}

	logger := observability.FromContext(ctx)

	if p.cfg.APIKey == "" {
		logger.Error("GEMINI_API_KEY not found in environment")
		return "", fmt.Errorf("gemini: %w", domain.ErrMissingAPIKey)
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: maxTokens,
		},
	}
	if req.System != "" {
		payload.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}
	if req.JSONMode {
		payload.GenerationConfig.ResponseMimeType = "application/json"
	}

	model := p.ResolveModel(req.Model)

	backoff := p.policy.InitialBackoff
	for attempt := 1; attempt <= p.policy.MaxAttempts; attempt++ {
		resp, raw, err := p.client.GenerateContent(ctx, model, payload)
		if err != nil {
			var apiErr *apiError
			if errors.As(err, &apiErr) {
				if retry.IsRetryableStatus(apiErr.StatusCode) && attempt < p.policy.MaxAttempts {
					logger.Warn("Gemini request failed, retrying",
						zap.Int("status", apiErr.StatusCode),
						zap.Int("attempt", attempt),
						zap.Int("max_attempts", p.policy.MaxAttempts),
						zap.Duration("backoff", backoff))
					p.policy.Wait(backoff)
					backoff *= 2
					continue
				}
				logger.Error("Gemini request failed",
					zap.Int("status", apiErr.StatusCode),
					zap.String("body", apiErr.Body))
				return "", fmt.Errorf("gemini request failed: %w", err)
			}

			if attempt < p.policy.MaxAttempts {
				logger.Warn("Gemini request error, retrying",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", p.policy.MaxAttempts),
					zap.Duration("backoff", backoff),
					zap.Error(err))
				p.policy.Wait(backoff)
				backoff *= 2
				continue
			}
			logger.Error("Gemini request error", zap.Error(err))
			return "", fmt.Errorf("gemini request failed: %w", err)
		}

		if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
			logger.Warn("no content parts found in Gemini response",
				zap.ByteString("body", raw))
			return "", fmt.Errorf("gemini: %w", domain.ErrMalformedResponse)
		}

		text := resp.Candidates[0].Content.Parts[0].Text
		if req.JSONMode {
			text = validate.JSONResponse(logger, text, "Gemini")
		}
		return text, nil
	}

	return "", fmt.Errorf("gemini: all %d attempts failed", p.policy.MaxAttempts)
}
