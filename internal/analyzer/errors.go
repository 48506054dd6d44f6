package analyzer

import "errors"

var (
	// ErrNotConfigured means no model credential is available; callers
	// should fail before any network work happens.
	ErrNotConfigured = errors.New("analysis client not configured")

	// ErrAnalysis wraps model-side failures: transport errors, empty
	// responses and unparseable output.
	ErrAnalysis = errors.New("analysis failed")
)
