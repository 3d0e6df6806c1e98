package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/davidbz/askllm/internal/validate"
)

func TestJSONResponse_ValidJSON(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	text := `{"answer": 4}`
	result := validate.JSONResponse(logger, text, "OpenAI")

	assert.Equal(t, text, result)
	assert.Zero(t, logs.Len())
}

func TestJSONResponse_InvalidJSONStillReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	text := "2+2 equals 4 because that is how addition works."
	result := validate.JSONResponse(logger, text, "Claude")

	assert.Equal(t, text, result)
	assert.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Contains(t, entry.Message, "not valid JSON")
	assert.Equal(t, "Claude", entry.ContextMap()["label"])
}

func TestJSONResponse_EmptyText(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	assert.Empty(t, validate.JSONResponse(logger, "", "Gemini"))
	assert.Zero(t, logs.Len())
}
