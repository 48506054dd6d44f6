package llm

import (
	"context"
	"encoding/json"
)

// Client abstracts generative-AI providers for document analysis.
type Client interface {
	AnalyzeDocument(ctx context.Context, input AnalyzeInput) (json.RawMessage, error)
}

// AnalyzeInput captures one analysis request. Exactly one of Text or
// InlineData carries the document content; Prompt always rides along.
type AnalyzeInput struct {
	Prompt         string
	Text           string
	InlineData     []byte
	InlineMimeType string

	// Schema constrains the model output to a predeclared JSON shape.
	Schema map[string]any
}
