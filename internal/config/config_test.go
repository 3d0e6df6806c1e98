package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/askllm/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Empty(t, cfg.Anthropic.APIKey)
		require.Equal(t, "https://api.anthropic.com", cfg.Anthropic.BaseURL)
		require.Equal(t, "claude-opus-4-5-20251101", cfg.Anthropic.Model)
		require.Equal(t, 60, cfg.Anthropic.Timeout)
		require.Equal(t, 3, cfg.Anthropic.MaxRetries)

		require.Equal(t, "gemini-2.5-pro-preview", cfg.Gemini.Model)
		require.Equal(t, "https://generativelanguage.googleapis.com", cfg.Gemini.BaseURL)

		require.Equal(t, "gpt-5.2-2025-12-11", cfg.OpenAI.Model)
		require.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)

		require.Equal(t, "qwen3-max-2026-01-23", cfg.Qwen.Model)
		require.Equal(t, "https://dashscope-intl.aliyuncs.com/compatible-mode/v1", cfg.Qwen.BaseURL)
		require.Equal(t, 60, cfg.Qwen.Timeout)
		require.Equal(t, 120, cfg.Qwen.StreamTimeout)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
		t.Setenv("CLAUDE_MODEL", "claude-haiku")
		t.Setenv("GEMINI_API_KEY", "gm-test")
		t.Setenv("GEMINI_MODEL", "gemini-1.5-flash")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		t.Setenv("OPENAI_MODEL", "gpt-4o")
		t.Setenv("DASHSCOPE_API_KEY", "ds-test")
		t.Setenv("QWEN_MODEL", "qwen-turbo")
		t.Setenv("QWEN_STREAM_TIMEOUT", "180")

		cfg := config.Load()

		require.NotNil(t, cfg)

		require.Equal(t, "sk-ant-test", cfg.Anthropic.APIKey)
		require.Equal(t, "claude-haiku", cfg.Anthropic.Model)
		require.Equal(t, "gm-test", cfg.Gemini.APIKey)
		require.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
		require.Equal(t, "sk-test", cfg.OpenAI.APIKey)
		require.Equal(t, "gpt-4o", cfg.OpenAI.Model)
		require.Equal(t, "ds-test", cfg.Qwen.APIKey)
		require.Equal(t, "qwen-turbo", cfg.Qwen.Model)
		require.Equal(t, 180, cfg.Qwen.StreamTimeout)
	})
}
