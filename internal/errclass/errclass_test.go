package errclass

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Category
	}{
		{"rate limit phrase", errors.New("openai: Rate Limit reached for model"), CategoryRateLimited},
		{"429 status", errors.New("unexpected status 429"), CategoryRateLimited},
		{"quota", errors.New("You exceeded your current quota"), CategoryQuotaExceeded},
		{"limit exceeded", errors.New("monthly limit exceeded"), CategoryQuotaExceeded},
		{"invalid key", errors.New("Invalid API key provided"), CategoryUnauthorized},
		{"401", errors.New("status 401: bad token"), CategoryUnauthorized},
		{"timeout", errors.New("request timed out after 60s"), CategoryNetwork},
		{"connection refused", errors.New("dial tcp: connection refused"), CategoryNetwork},
		{"unmatched", errors.New("malformed image payload"), CategoryUnknown},
		{"nil", nil, CategoryUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Errorf("Classify(%v) = %s, want %s", tc.err, got, tc.want)
			}
		})
	}
}

func TestClassifyWrappedDeadline(t *testing.T) {
	err := fmt.Errorf("extract page 3: %w", context.DeadlineExceeded)
	cat := Classify(err)
	if cat != CategoryNetwork {
		t.Errorf("wrapped deadline should classify as network, got %s", cat)
	}
	if !cat.Retryable() {
		t.Error("timeouts must be retryable")
	}
}

func TestRetryableAndCritical(t *testing.T) {
	t.Run("unknown is neither", func(t *testing.T) {
		c := CategoryUnknown
		if c.Retryable() {
			t.Error("unknown errors must not trigger failover")
		}
		if c.Critical() {
			t.Error("unknown errors are per-page warnings, not run failures")
		}
	})

	t.Run("network retryable but not critical", func(t *testing.T) {
		c := CategoryNetwork
		if !c.Retryable() {
			t.Error("network errors should be retryable")
		}
		if c.Critical() {
			t.Error("a single flaky page should not abort the run")
		}
	})

	t.Run("credential categories critical", func(t *testing.T) {
		for _, c := range []Category{CategoryRateLimited, CategoryQuotaExceeded, CategoryUnauthorized} {
			if !c.Critical() {
				t.Errorf("%s should abort the run", c)
			}
			if !c.Retryable() {
				t.Errorf("%s should still allow credential failover first", c)
			}
		}
	})
}

func TestUserMessageNeverEmpty(t *testing.T) {
	for _, c := range []Category{CategoryRateLimited, CategoryQuotaExceeded, CategoryUnauthorized, CategoryNetwork, CategoryUnknown} {
		if c.UserMessage() == "" {
			t.Errorf("%s has no user message", c)
		}
	}
}
