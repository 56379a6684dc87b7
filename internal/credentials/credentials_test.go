package credentials

import (
	"strings"
	"testing"
)

func TestNewSet(t *testing.T) {
	t.Run("default first then fallbacks in order", func(t *testing.T) {
		set := NewSet("sk-default-key", "sk-fallback-one", "sk-fallback-two")
		creds := set.All()
		if len(creds) != 3 {
			t.Fatalf("expected 3 credentials, got %d", len(creds))
		}
		if creds[0].Label != "default" || creds[0].Key != "sk-default-key" {
			t.Errorf("first credential should be the default, got %+v", creds[0])
		}
		if creds[1].Label != "fallback-1" || creds[2].Label != "fallback-2" {
			t.Errorf("fallback order wrong: %+v", creds[1:])
		}
	})

	t.Run("blank keys dropped", func(t *testing.T) {
		set := NewSet("sk-default", "", "  ", "sk-real")
		if set.Len() != 2 {
			t.Errorf("expected 2 usable credentials, got %d", set.Len())
		}
	})

	t.Run("empty set", func(t *testing.T) {
		if !NewSet("").Empty() {
			t.Error("set with no keys should be empty")
		}
	})
}

func TestMask(t *testing.T) {
	key := "sk-proj-abcdefghijklmnop"
	masked := Mask(key)
	if strings.Contains(masked, "abcdefghijklmn") {
		t.Errorf("masked key leaks material: %s", masked)
	}
	if !strings.HasPrefix(masked, "sk-p") || !strings.HasSuffix(masked, "op") {
		t.Errorf("expected short prefix/suffix preserved, got %s", masked)
	}

	// Short keys are hidden completely.
	if m := Mask("short"); m != "*****" {
		t.Errorf("short key should be fully masked, got %s", m)
	}
}
