// Package providers contains clients for the vision extraction service.
package providers

import (
	"context"
	"time"
)

// Extractor turns a rendered page image into markdown text.
//
// Implementations are stateless across calls: one invocation per page per
// extraction attempt, no memory between them. Failover across credentials
// is layered on top (see the extract package), not inside implementations.
type Extractor interface {
	// Name returns the provider identifier (e.g. "openai").
	Name() string

	// ExtractPage extracts formatted text from a page image.
	ExtractPage(ctx context.Context, image []byte, pageNum int) (*ExtractResult, error)
}

// ExtractResult is the response from an extraction call.
type ExtractResult struct {
	// Text is the markdown-formatted page content.
	Text string `json:"text"`

	// Provider info
	Model     string `json:"model_used,omitempty"`
	RequestID string `json:"request_id,omitempty"`

	// Token counts
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`

	// Timing
	ExecutionTime time.Duration `json:"execution_time"`
}
