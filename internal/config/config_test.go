package config

import (
	"os"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Pipeline.MaxPages != 5 {
		t.Errorf("default max_pages = %d, want 5", cfg.Pipeline.MaxPages)
	}
	if cfg.Pipeline.ChunkSize != 2 {
		t.Errorf("default chunk_size = %d, want 2", cfg.Pipeline.ChunkSize)
	}
	if cfg.Render.JPEGQuality != 75 {
		t.Errorf("default jpeg_quality = %d, want 75", cfg.Render.JPEGQuality)
	}
	if cfg.Usage.MaxGenerations <= 0 {
		t.Error("default usage cap should be enabled")
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("PDFWEAVER_TEST_KEY", "sk-resolved")

	t.Run("resolves reference", func(t *testing.T) {
		if got := ResolveEnvVars("${PDFWEAVER_TEST_KEY}"); got != "sk-resolved" {
			t.Errorf("got %q, want sk-resolved", got)
		}
	})

	t.Run("plain value untouched", func(t *testing.T) {
		if got := ResolveEnvVars("sk-literal"); got != "sk-literal" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("missing var resolves empty", func(t *testing.T) {
		os.Unsetenv("PDFWEAVER_MISSING_VAR")
		if got := ResolveEnvVars("${PDFWEAVER_MISSING_VAR}"); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}

func TestCredentials(t *testing.T) {
	t.Setenv("PDFWEAVER_TEST_DEFAULT", "sk-default-value")

	cfg := DefaultConfig()
	cfg.Extraction.APIKey = "${PDFWEAVER_TEST_DEFAULT}"
	cfg.Extraction.FallbackAPIKeys = []string{"sk-fallback-literal", "${PDFWEAVER_UNSET_FALLBACK}"}

	set := cfg.Credentials()
	creds := set.All()
	// The unset fallback resolves to empty and is dropped.
	if len(creds) != 2 {
		t.Fatalf("expected 2 credentials, got %d", len(creds))
	}
	if creds[0].Key != "sk-default-value" {
		t.Errorf("default key not resolved: %q", creds[0].Key)
	}
}

func TestRenderYAML(t *testing.T) {
	cfg := DefaultConfig()
	out, err := cfg.RenderYAML()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "chunk_size: 2") {
		t.Errorf("rendered config missing chunk_size:\n%s", out)
	}
}
