package config

// Config is the full pdf-weaver configuration.
type Config struct {
	Pipeline   PipelineConfig   `mapstructure:"pipeline" yaml:"pipeline"`
	Render     RenderConfig     `mapstructure:"render" yaml:"render"`
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction"`
	Format     FormatConfig     `mapstructure:"format" yaml:"format"`
	Usage      UsageConfig      `mapstructure:"usage" yaml:"usage"`
}

// PipelineConfig bounds a single conversion run.
type PipelineConfig struct {
	// MaxPages is the largest page span a single run may request.
	MaxPages int `mapstructure:"max_pages" yaml:"max_pages"`
	// ChunkSize is how many pages are rendered and extracted together.
	// It also bounds concurrent in-flight extraction requests and sets
	// the cancellation checkpoint granularity.
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size"`
	// MaxFileSizeMB rejects oversized input files before any processing.
	MaxFileSizeMB int `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
}

// RenderConfig controls page rasterization.
type RenderConfig struct {
	// DPI trades OCR fidelity against payload size and latency.
	DPI int `mapstructure:"dpi" yaml:"dpi"`
	// JPEGQuality (1-100) controls upload size.
	JPEGQuality int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
	// Workers sizes the background render pool. 0 renders inline.
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// ExtractionConfig configures the vision extraction service.
type ExtractionConfig struct {
	Model           string   `mapstructure:"model" yaml:"model"`
	APIKey          string   `mapstructure:"api_key" yaml:"api_key"`
	FallbackAPIKeys []string `mapstructure:"fallback_api_keys" yaml:"fallback_api_keys"`
	BaseURL         string   `mapstructure:"base_url" yaml:"base_url,omitempty"`
	TimeoutSeconds  int      `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries      int      `mapstructure:"max_retries" yaml:"max_retries"`
	RateLimit       float64  `mapstructure:"rate_limit" yaml:"rate_limit"`
	// Structured requests the model return a JSON page payload that is
	// schema-validated before the markdown field is trusted.
	Structured bool `mapstructure:"structured" yaml:"structured"`
}

// FormatConfig configures the downstream formatting pass over the
// assembled markdown.
type FormatConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// UsageConfig caps successful runs in a rolling window.
type UsageConfig struct {
	MaxGenerations int `mapstructure:"max_generations" yaml:"max_generations"`
	WindowHours    int `mapstructure:"window_hours" yaml:"window_hours"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			MaxPages:      5,
			ChunkSize:     2,
			MaxFileSizeMB: 50,
		},
		Render: RenderConfig{
			DPI:         150,
			JPEGQuality: 75,
			Workers:     2,
		},
		Extraction: ExtractionConfig{
			Model:           "gpt-4o",
			APIKey:          "${OPENAI_API_KEY}",
			FallbackAPIKeys: []string{},
			TimeoutSeconds:  120,
			MaxRetries:      3,
			RateLimit:       2.0,
			Structured:      true,
		},
		Format: FormatConfig{
			Enabled: true,
			Model:   "gpt-4o-mini",
		},
		Usage: UsageConfig{
			MaxGenerations: 20,
			WindowHours:    24,
		},
	}
}
