// Package credentials models the ordered API credential set used for
// extraction failover.
package credentials

import (
	"fmt"
	"strings"
)

// Credential is a single API key with an identifying label.
type Credential struct {
	Label string
	Key   string
}

// Masked returns the key with everything but a short prefix and suffix
// hidden. This is the only form that may appear in logs or error text.
func (c Credential) Masked() string {
	return Mask(c.Key)
}

// Set is an ordered list of credentials. The first entry is the default,
// tried before any fallback. A Set is loaded once per run and never mutated.
type Set struct {
	creds []Credential
}

// NewSet builds a Set from the default key and fallbacks, in order.
// Blank keys are dropped so a sparse config doesn't produce dead attempts.
func NewSet(defaultKey string, fallbacks ...string) Set {
	creds := make([]Credential, 0, 1+len(fallbacks))
	if k := strings.TrimSpace(defaultKey); k != "" {
		creds = append(creds, Credential{Label: "default", Key: k})
	}
	for i, fb := range fallbacks {
		if k := strings.TrimSpace(fb); k != "" {
			creds = append(creds, Credential{Label: fallbackLabel(i), Key: k})
		}
	}
	return Set{creds: creds}
}

func fallbackLabel(i int) string {
	return fmt.Sprintf("fallback-%d", i+1)
}

// All returns the credentials in attempt order.
func (s Set) All() []Credential {
	out := make([]Credential, len(s.creds))
	copy(out, s.creds)
	return out
}

// Len returns the number of usable credentials.
func (s Set) Len() int {
	return len(s.creds)
}

// Empty reports whether no usable credential is configured.
func (s Set) Empty() bool {
	return len(s.creds) == 0
}

// Mask hides all but the first four and last two characters of a key.
// Short keys are masked entirely.
func Mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "…" + key[len(key)-2:]
}
