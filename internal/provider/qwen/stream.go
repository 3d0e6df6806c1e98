package qwen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/davidbz/askllm/internal/domain"
	"github.com/davidbz/askllm/internal/observability"
)

// AskStream sends a prompt and returns a finite channel of incremental
// fragments. Thinking output arrives on the Reasoning field, the answer
// on Delta; the stream is not restartable. The channel closes after a
// Done chunk or an Err chunk.
func (p *Provider) AskStream(ctx context.Context, req *domain.AskRequest, thinking bool) (<-chan domain.StreamChunk, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, domain.ErrEmptyPrompt
	}

	logger := observability.FromContext(ctx)

	if p.cfg.APIKey == "" {
		logger.Error("DASHSCOPE_API_KEY not found in environment")
		return nil, fmt.Errorf("qwen: %w", domain.ErrMissingAPIKey)
	}

	params := p.buildParams(req)
	stream := p.streamClient.Chat.Completions.NewStreaming(ctx, params,
		option.WithJSONSet("enable_thinking", thinking))

	chunks := make(chan domain.StreamChunk)

	go func() {
		defer close(chunks)
		defer logger.Debug("Qwen stream completed")

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			choice := chunk.Choices[0]

			// DashScope delivers thinking text as a reasoning_content
			// field the OpenAI schema does not know about; it is only
			// reachable through the delta's extra fields.
			if field, ok := choice.Delta.JSON.ExtraFields["reasoning_content"]; ok {
				var reasoning string
				if err := json.Unmarshal([]byte(field.Raw()), &reasoning); err == nil && reasoning != "" {
					chunks <- domain.StreamChunk{Reasoning: reasoning}
				}
			}

			if choice.Delta.Content != "" {
				chunks <- domain.StreamChunk{Delta: choice.Delta.Content}
			}

			if choice.FinishReason != "" {
				chunks <- domain.StreamChunk{Done: true}
				return
			}
		}

		if err := stream.Err(); err != nil && !errors.Is(err, io.EOF) {
			logger.Error("Qwen stream error", zap.Error(err))
			chunks <- domain.StreamChunk{Err: fmt.Errorf("qwen stream error: %w", err)}
			return
		}

		chunks <- domain.StreamChunk{Done: true}
	}()

	return chunks, nil
}
