// Package validate holds the advisory JSON response check shared by the
// vendor adapters. Validation never rejects output: a malformed body is
// logged and handed back to the caller unchanged.
package validate

import (
	"encoding/json"

	"go.uber.org/zap"
)

// JSONResponse verifies that text parses as JSON when a JSON-mode call
// produced it. On parse failure it logs a warning naming the vendor
// label, but still returns the original text so the caller can decide
// what to do.
func JSONResponse(logger *zap.Logger, text, label string) string {
	if text == "" {
		return text
	}

	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		logger.Warn("json_mode was requested but response is not valid JSON",
			zap.String("label", label),
			zap.Error(err))
	}
	return text
}
