// Package format runs extracted markdown through a cheaper text model
// to clean up OCR artifacts before the document is written out.
package format

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

//go:embed system.tmpl
var systemPrompt string

// Formatter cleans up an assembled markdown document.
type Formatter interface {
	Format(ctx context.Context, markdown string) (string, error)
}

// Passthrough returns the document unchanged. Used when formatting is
// disabled in config.
type Passthrough struct{}

func (Passthrough) Format(_ context.Context, markdown string) (string, error) {
	return markdown, nil
}

// OpenAIConfig holds configuration for the formatting client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// OpenAIFormatter formats markdown with a chat model.
type OpenAIFormatter struct {
	model   string
	timeout time.Duration
	client  openai.Client
}

// NewOpenAIFormatter creates a formatter bound to one API key.
func NewOpenAIFormatter(cfg OpenAIConfig) *OpenAIFormatter {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIFormatter{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		client:  openai.NewClient(opts...),
	}
}

// Format sends the document for cleanup. Formatting is best effort at
// the pipeline level; callers fall back to the raw document on error.
func (f *OpenAIFormatter) Format(ctx context.Context, markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return markdown, nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: f.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(markdown),
		},
	})
	if err != nil {
		return "", fmt.Errorf("format request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("format request returned no choices")
	}

	cleaned := strings.TrimSpace(resp.Choices[0].Message.Content)
	if cleaned == "" {
		return "", fmt.Errorf("format request returned empty document")
	}
	return cleaned, nil
}

// Verify interfaces
var (
	_ Formatter = Passthrough{}
	_ Formatter = (*OpenAIFormatter)(nil)
)
