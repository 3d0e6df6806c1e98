// Package qwen provides an adapter for Alibaba's Qwen models via the
// DashScope OpenAI-compatible API, using the official OpenAI SDK with a
// swapped base URL. It implements domain.StreamingProvider: the
// streaming path carries an optional reasoning channel alongside the
// answer channel.
package qwen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/davidbz/askllm/internal/domain"
	"github.com/davidbz/askllm/internal/observability"
	"github.com/davidbz/askllm/internal/retry"
	"github.com/davidbz/askllm/internal/validate"
)

const defaultMaxTokens = 8192

// Provider implements domain.StreamingProvider for Qwen.
type Provider struct {
	cfg          Config
	client       openai.Client
	streamClient openai.Client
	policy       retry.Policy
}

// NewProvider creates a new Qwen provider. Two SDK clients are kept:
// the streaming one carries a longer request timeout since a full
// thinking-plus-answer stream routinely outlives the blocking one.
func NewProvider(cfg Config) *Provider {
	policy := retry.DefaultPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxAttempts = cfg.MaxRetries
	}

	return &Provider{
		cfg:          cfg,
		client:       newSDKClient(cfg, cfg.Timeout),
		streamClient: newSDKClient(cfg, cfg.StreamTimeout),
		policy:       policy,
	}
}

func newSDKClient(cfg Config, timeoutSeconds int) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		// The adapter runs its own retry policy; the SDK's built-in
		// retries would multiply attempts underneath it.
		option.WithMaxRetries(0),
	}
	if timeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(timeoutSeconds)*time.Second))
	}
	return openai.NewClient(opts...)
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "qwen"
}

// ResolveModel applies model precedence: explicit argument, then the
// QWEN_MODEL environment override, then the hardcoded default.
func (p *Provider) ResolveModel(override string) string {
	if override != "" {
		return override
	}
	return p.cfg.Model
}

func (p *Provider) buildParams(req *domain.AskRequest) openai.ChatCompletionNewParams {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.ResolveModel(req.Model)),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}
}

// classify maps an SDK error onto the shared retry policy: retryable
// statuses and transport failures get another attempt, anything else
// aborts immediately.
func classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if retry.IsRetryableStatus(apierr.StatusCode) {
			return retry.Retryable(fmt.Errorf("qwen HTTP %d: %w", apierr.StatusCode, err))
		}
		return fmt.Errorf("qwen request failed: %w", err)
	}
	// No HTTP status means the request never completed: transport
	// errors are retried up to the same limit.
	return retry.Retryable(fmt.Errorf("qwen request error: %w", err))
}

// Ask sends a single prompt to Qwen and returns the answer text.
// Thinking output is disabled on this path.
func (p *Provider) Ask(ctx context.Context, req *domain.AskRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", domain.ErrEmptyPrompt
	}

	logger := observability.FromContext(ctx)

	if p.cfg.APIKey == "" {
		logger.Error("DASHSCOPE_API_KEY not found in environment")
		return "", fmt.Errorf("qwen: %w", domain.ErrMissingAPIKey)
	}

	params := p.buildParams(req)

	text, err := retry.Do(ctx, logger, p.policy, func(ctx context.Context) (string, error) {
		completion, err := p.client.Chat.Completions.New(ctx, params,
			option.WithJSONSet("enable_thinking", false))
		if err != nil {
			return "", classify(err)
		}

		if len(completion.Choices) == 0 {
			logger.Warn("no choices found in Qwen response",
				zap.String("body", completion.RawJSON()))
			return "", fmt.Errorf("qwen: %w", domain.ErrMalformedResponse)
		}

		return completion.Choices[0].Message.Content, nil
	})
	if err != nil {
		return "", err
	}

	// DashScope has no JSON response-format flag on this surface, so
	// compliance is advisory only, like Claude.
	if req.JSONMode {
		text = validate.JSONResponse(logger, text, "Qwen")
	}
	return text, nil
}
