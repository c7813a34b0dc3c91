package insight

import "errors"

// ErrQuotaExceeded indicates the LLM provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("insight quota exceeded")

// ErrEmptyAnalysis is returned when the provider answered without any text.
var ErrEmptyAnalysis = errors.New("insight generator returned no analysis")
