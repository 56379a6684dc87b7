package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Sonucs12/pdf-weaver/internal/errclass"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4o"
)

const extractSystemPrompt = `You are a precise OCR engine. Extract every piece of text from the
page image and reproduce it as clean markdown. Preserve headings, lists,
tables, and emphasis. Do not invent content that is not on the page.`

// OpenAIConfig holds configuration for the OpenAI extraction client.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
	Timeout    time.Duration // Per attempt
	MaxRetries int           // Transient-error retries per call
	RetryDelay time.Duration // Base backoff delay
	RateLimit  float64       // Requests per second
	Structured bool          // Request and validate a JSON page payload
}

// OpenAIExtractor implements Extractor using the official OpenAI SDK with a
// vision-capable chat model.
type OpenAIExtractor struct {
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	structured bool
	limiter    *RateLimiter
	client     openai.Client
}

// NewOpenAIExtractor creates a new extraction client for a single API key.
func NewOpenAIExtractor(cfg OpenAIConfig) *OpenAIExtractor {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// Retries stay in our hands: the failover layer must see
		// rate-limit errors, not have the SDK absorb them.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIExtractor{
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		structured: cfg.Structured,
		limiter:    NewRateLimiter(cfg.RateLimit),
		client:     openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIExtractor) Name() string {
	return OpenAIName
}

// ExtractPage extracts markdown from one page image.
//
// Transient network failures are retried in place with backoff; anything
// else (rate limit, quota, auth, malformed input) returns immediately so
// the failover layer can decide what to do with it.
func (c *OpenAIExtractor) ExtractPage(ctx context.Context, image []byte, pageNum int) (*ExtractResult, error) {
	start := time.Now()
	requestID := uuid.New().String()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp *openai.ChatCompletion
	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			var err error
			resp, err = c.client.Chat.Completions.New(attemptCtx, c.buildParams(image, pageNum))
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errclass.Classify(err) == errclass.CategoryNetwork
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("extraction request for page %d failed: %w", pageNum, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response for page %d", pageNum)
	}

	text := resp.Choices[0].Message.Content
	if c.structured {
		markdown, err := parseStructuredPage(text)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		text = markdown
	}

	return &ExtractResult{
		Text:             text,
		Model:            resp.Model,
		RequestID:        requestID,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		ExecutionTime:    time.Since(start),
	}, nil
}

func (c *OpenAIExtractor) buildParams(image []byte, pageNum int) openai.ChatCompletionNewParams {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Extract the text of page %d as markdown.", pageNum)
	if c.structured {
		fmt.Fprintf(&prompt,
			` Respond with a single JSON object {"page": %d, "markdown": "..."} and nothing else.`,
			pageNum)
	}

	return openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(extractSystemPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt.String()),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
	}
}

// Verify interface
var _ Extractor = (*OpenAIExtractor)(nil)
