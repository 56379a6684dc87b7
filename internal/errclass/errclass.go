// Package errclass classifies extraction errors by message pattern.
//
// Classification drives two decisions elsewhere in the pipeline: whether a
// failed call is worth retrying with another credential, and whether a
// page-level failure escalates to a run-level abort. The rules live here as
// a single ordered table so they can be tested in isolation from the
// network code that raises the errors.
package errclass

import (
	"context"
	"errors"
	"strings"
)

// Category is the classified kind of an extraction error.
type Category string

const (
	// CategoryRateLimited covers 429-style throttling responses.
	CategoryRateLimited Category = "rate_limited"
	// CategoryQuotaExceeded covers exhausted billing or usage quotas.
	CategoryQuotaExceeded Category = "quota_exceeded"
	// CategoryUnauthorized covers invalid or revoked credentials.
	CategoryUnauthorized Category = "unauthorized"
	// CategoryNetwork covers transient transport failures and timeouts.
	CategoryNetwork Category = "network"
	// CategoryUnknown is everything that matched no pattern.
	CategoryUnknown Category = "unknown"
)

// rule pairs a category with the case-insensitive substrings that select it.
// Rules are evaluated in order; the first match wins, so more specific
// categories sit above the generic network bucket.
type rule struct {
	category Category
	patterns []string
}

var rules = []rule{
	{CategoryRateLimited, []string{"rate limit", "rate-limit", "too many requests", "429"}},
	{CategoryQuotaExceeded, []string{"quota", "limit exceeded", "insufficient credits", "billing"}},
	{CategoryUnauthorized, []string{"unauthorized", "invalid key", "invalid api key", "invalid x-api-key", "401", "403", "authentication"}},
	{CategoryNetwork, []string{"timeout", "timed out", "deadline exceeded", "connection refused", "connection reset", "no such host", "unexpected eof", "bad gateway", "service unavailable", "500", "502", "503", "504"}},
}

// Classify maps an error to its category. Context deadline errors classify
// as network failures even when the wrapped message carries no pattern.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryNetwork
	}

	msg := strings.ToLower(err.Error())
	for _, r := range rules {
		for _, p := range r.patterns {
			if strings.Contains(msg, p) {
				return r.category
			}
		}
	}
	return CategoryUnknown
}

// Retryable reports whether an error in this category is worth attempting
// again with a different credential. Unknown errors (malformed input and the
// like) are not: retrying them wastes the remaining credentials.
func (c Category) Retryable() bool {
	switch c {
	case CategoryRateLimited, CategoryQuotaExceeded, CategoryUnauthorized, CategoryNetwork:
		return true
	default:
		return false
	}
}

// Critical reports whether a page failing with this category should abort
// the whole run rather than be recorded as a per-page warning. Throttling,
// quota, and credential failures affect every remaining page equally, so
// continuing would only burn more of the same budget.
func (c Category) Critical() bool {
	switch c {
	case CategoryRateLimited, CategoryQuotaExceeded, CategoryUnauthorized:
		return true
	default:
		return false
	}
}

// UserMessage returns the presentation copy for a run-level failure of this
// category. Raw provider messages never reach the user directly.
func (c Category) UserMessage() string {
	switch c {
	case CategoryRateLimited:
		return "The extraction service is rate limiting requests. Wait a moment and try again."
	case CategoryQuotaExceeded:
		return "The extraction quota has been exhausted. Try again later."
	case CategoryUnauthorized:
		return "The extraction service rejected the configured credentials."
	case CategoryNetwork:
		return "Could not reach the extraction service. Check your connection and try again."
	default:
		return "Extraction failed unexpectedly."
	}
}
