package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/askllm/internal/domain"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*Provider, *[]time.Duration) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var slept []time.Duration
	provider := NewProvider(Config{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Model:      "gemini-2.5-pro-preview",
		Timeout:    5,
		MaxRetries: 3,
	})
	provider.policy.Sleep = func(d time.Duration) { slept = append(slept, d) }
	return provider, &slept
}

func geminiResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{
						map[string]interface{}{"text": text},
					},
				},
			},
		},
	}
}

func TestProvider_Name(t *testing.T) {
	assert.Equal(t, "gemini", NewProvider(Config{}).Name())
}

func TestProvider_ResolveModel(t *testing.T) {
	p := NewProvider(Config{Model: "gemini-2.5-pro-preview"})

	assert.Equal(t, "gemini-2.5-pro-preview", p.ResolveModel(""))
	assert.Equal(t, "gemini-1.5-flash", p.ResolveModel("gemini-1.5-flash"))
	// "models/" prefix is stripped for URL construction.
	assert.Equal(t, "gemini-1.5-flash", p.ResolveModel("models/gemini-1.5-flash"))
}

func TestAsk_Success(t *testing.T) {
	answer := "2+2 equals 4 because addition of two pairs of units yields four units."

	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.5-pro-preview:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		body, _ := io.ReadAll(r.Body)
		var reqBody map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &reqBody))

		genConfig, ok := reqBody["generationConfig"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 0.7, genConfig["temperature"])
		assert.Equal(t, float64(8192), genConfig["maxOutputTokens"])
		_, hasMime := genConfig["responseMimeType"]
		assert.False(t, hasMime)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(geminiResponse(answer))
	}

	provider, _ := newTestProvider(t, handler)

	text, err := provider.Ask(context.Background(), &domain.AskRequest{
		Prompt:      "Reply with exactly one sentence: what is 2+2 and why?",
		Temperature: 0.7,
	})

	require.NoError(t, err)
	assert.Equal(t, answer, text)
}

func TestAsk_SystemInstructionAndJSONMode(t *testing.T) {
	var capturedBody map[string]interface{}
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &capturedBody)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(geminiResponse(`{"answer":4}`))
	}

	provider, _ := newTestProvider(t, handler)

	text, err := provider.Ask(context.Background(), &domain.AskRequest{
		Prompt:   `{"question":"what is 2+2?"}`,
		System:   "Reply in JSON with key 'answer'.",
		JSONMode: true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"answer":4}`, text)

	si, ok := capturedBody["systemInstruction"].(map[string]interface{})
	require.True(t, ok)
	parts := si["parts"].([]interface{})
	require.Len(t, parts, 1)
	assert.Equal(t, "Reply in JSON with key 'answer'.", parts[0].(map[string]interface{})["text"])

	genConfig := capturedBody["generationConfig"].(map[string]interface{})
	assert.Equal(t, "application/json", genConfig["responseMimeType"])
}

func TestAsk_MissingAPIKey(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	provider := NewProvider(Config{BaseURL: server.URL, Model: "gemini-2.5-pro-preview"})

	_, err := provider.Ask(context.Background(), &domain.AskRequest{Prompt: "Hi"})

	require.ErrorIs(t, err, domain.ErrMissingAPIKey)
	assert.Zero(t, atomic.LoadInt32(&calls), "no network call expected")
}

func TestAsk_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(geminiResponse("recovered"))
	}

	provider, slept := newTestProvider(t, handler)

	text, err := provider.Ask(context.Background(), &domain.AskRequest{Prompt: "Hi"})

	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Equal(t, []time.Duration{2 * time.Second}, *slept)
}

func TestAsk_RetriesExhausted(t *testing.T) {
	var calls int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}

	provider, slept := newTestProvider(t, handler)

	_, err := provider.Ask(context.Background(), &domain.AskRequest{Prompt: "Hi"})

	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, *slept)
}

func TestAsk_EmptyCandidates(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "no candidates",
			body: map[string]interface{}{"candidates": []interface{}{}},
		},
		{
			name: "candidate with no parts",
			body: map[string]interface{}{
				"candidates": []interface{}{
					map[string]interface{}{
						"content": map[string]interface{}{"parts": []interface{}{}},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(tt.body)
			}

			provider, _ := newTestProvider(t, handler)

			text, err := provider.Ask(context.Background(), &domain.AskRequest{Prompt: "Hi"})

			require.ErrorIs(t, err, domain.ErrMalformedResponse)
			assert.Empty(t, text)
		})
	}
}

func TestAsk_JSONModeInvalidJSONStillReturned(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(geminiResponse("plain prose, not JSON"))
	}

	provider, _ := newTestProvider(t, handler)

	text, err := provider.Ask(context.Background(), &domain.AskRequest{Prompt: "Hi", JSONMode: true})

	require.NoError(t, err)
	assert.Equal(t, "plain prose, not JSON", text)
}
