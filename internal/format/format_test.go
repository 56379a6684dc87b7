package format

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPassthrough(t *testing.T) {
	got, err := Passthrough{}.Format(context.Background(), "# Doc")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got != "# Doc" {
		t.Errorf("Format() = %q, want input unchanged", got)
	}
}

func TestOpenAIFormatter(t *testing.T) {
	t.Run("cleans document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"id":     "chatcmpl-test",
				"object": "chat.completion",
				"model":  "gpt-4o-mini",
				"choices": []map[string]any{
					{
						"index":         0,
						"finish_reason": "stop",
						"message": map[string]any{
							"role":    "assistant",
							"content": "# Cleaned\n\nBody.",
						},
					},
				},
			})
		}))
		defer srv.Close()

		f := NewOpenAIFormatter(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
		got, err := f.Format(context.Background(), "# Clea ned\n\nBo dy.")
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if got != "# Cleaned\n\nBody." {
			t.Errorf("Format() = %q", got)
		}
	})

	t.Run("empty input skips the request", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request for empty input")
		}))
		defer srv.Close()

		f := NewOpenAIFormatter(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
		got, err := f.Format(context.Background(), "   \n")
		if err != nil {
			t.Fatalf("Format() error = %v", err)
		}
		if got != "   \n" {
			t.Errorf("Format() = %q, want input unchanged", got)
		}
	})

	t.Run("server error propagates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		f := NewOpenAIFormatter(OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL})
		if _, err := f.Format(context.Background(), "# Doc"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
