package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/proofly-ai/proofly/pkg/models"
)

func TestKeyDeterministic(t *testing.T) {
	k1 := Key("languagetool", "en-US", "Helo world")
	k2 := Key("languagetool", "en-US", "Helo world")
	if k1 != k2 {
		t.Errorf("same input should produce same key: %s vs %s", k1, k2)
	}
}

func TestKeyFormat(t *testing.T) {
	k := Key("openai", "en-US", "some text")
	parts := strings.Split(k, ":")
	if len(parts) != 4 {
		t.Fatalf("expected 4 colon-separated parts, got %d: %s", len(parts), k)
	}
	if parts[0] != "grammar" || parts[1] != "openai" || parts[2] != "en-US" {
		t.Errorf("unexpected key prefix: %s", k)
	}
	if len(parts[3]) != 16 {
		t.Errorf("expected 16-hex-char digest, got %q", parts[3])
	}
	for _, c := range parts[3] {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("digest contains non-hex char %q", c)
		}
	}
}

func TestKeyComponentSensitivity(t *testing.T) {
	base := Key("languagetool", "en-US", "Helo world")

	if Key("openai", "en-US", "Helo world") == base {
		t.Error("changing provider should change the key")
	}
	if Key("languagetool", "de-DE", "Helo world") == base {
		t.Error("changing language should change the key")
	}
	if Key("languagetool", "en-US", "Helo world!") == base {
		t.Error("changing text should change the key")
	}
}

func TestHashTextMatchesKeyDigest(t *testing.T) {
	text := "The quick brown fox"
	k := Key("languagetool", "en-US", text)
	if !strings.HasSuffix(k, ":"+HashText(text)) {
		t.Errorf("key digest %s does not match HashText %s", k, HashText(text))
	}
}

func TestNoopStore(t *testing.T) {
	var s Store = Noop{}
	ctx := context.Background()

	errs := []models.GrammarError{{Message: "x", Length: 1, Replacements: []string{"y"}}}
	s.Set(ctx, "grammar:languagetool:en-US:0000000000000000", errs, time.Hour)

	if _, ok := s.Get(ctx, "grammar:languagetool:en-US:0000000000000000"); ok {
		t.Error("noop store should always miss")
	}
	if s.Exists(ctx, "anything") {
		t.Error("noop store should report nothing exists")
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("noop ping should succeed: %v", err)
	}

	// Counters and session tracking must be safely callable.
	s.IncrementProviderUsage(ctx, "languagetool")
	s.TrackSession(ctx, "sess-1")
	if err := s.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
