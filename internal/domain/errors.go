package domain

import "errors"

// ErrMissingAPIKey indicates the vendor credential is absent from the
// environment. Adapters return it before attempting any network I/O so
// callers can distinguish configuration errors from vendor errors.
var ErrMissingAPIKey = errors.New("API key not found in environment")

// ErrMalformedResponse indicates the vendor returned a response missing
// the expected content fields (empty content blocks, candidates, or
// choices). The raw payload is logged by the adapter for diagnosis.
var ErrMalformedResponse = errors.New("vendor response missing expected content")

// ErrEmptyPrompt indicates the caller supplied no prompt text.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")
