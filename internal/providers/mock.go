package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockExtractor is an Extractor for testing.
type MockExtractor struct {
	// Configurable behavior
	ProviderName string
	Latency      time.Duration
	ShouldFail   bool
	FailWith     error // Error returned when failing (nil = generic)
	FailAfter    int   // Fail after N requests (0 = never)
	ResponseText string

	// Per-page responses override ResponseText when set.
	PageText map[int]string

	// State
	requestCount atomic.Int64
}

// NewMockExtractor creates a new mock extractor with sensible defaults.
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		ProviderName: MockName,
		Latency:      time.Millisecond,
		ResponseText: "mock markdown",
	}
}

// Name returns the provider identifier.
func (m *MockExtractor) Name() string {
	return m.ProviderName
}

// ExtractPage returns the configured response or failure.
func (m *MockExtractor) ExtractPage(ctx context.Context, image []byte, pageNum int) (*ExtractResult, error) {
	start := time.Now()
	count := m.requestCount.Add(1)

	if m.ShouldFail {
		return nil, m.failure()
	}
	if m.FailAfter > 0 && int(count) > m.FailAfter {
		return nil, fmt.Errorf("mock extractor failed after %d requests", m.FailAfter)
	}

	select {
	case <-time.After(m.Latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	text := m.ResponseText
	if t, ok := m.PageText[pageNum]; ok {
		text = t
	}

	return &ExtractResult{
		Text:             text,
		Model:            m.ProviderName,
		RequestID:        fmt.Sprintf("mock-%d", count),
		PromptTokens:     len(image) / 1024,
		CompletionTokens: len(text) / 4,
		ExecutionTime:    time.Since(start),
	}, nil
}

func (m *MockExtractor) failure() error {
	if m.FailWith != nil {
		return m.FailWith
	}
	return fmt.Errorf("mock extractor configured to fail")
}

// RequestCount returns the number of requests made.
func (m *MockExtractor) RequestCount() int64 {
	return m.requestCount.Load()
}

// Reset resets the request counter.
func (m *MockExtractor) Reset() {
	m.requestCount.Store(0)
}

// Verify interface
var _ Extractor = (*MockExtractor)(nil)
