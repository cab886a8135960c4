package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/proofly-ai/proofly/pkg/config"
	"github.com/proofly-ai/proofly/pkg/models"
)

func TestOpenRouterNoKeyFallsBack(t *testing.T) {
	ltUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ltMatchesPayload))
	}))
	defer ltUpstream.Close()

	lt := newLT(ltUpstream.URL)
	or := NewOpenRouter(config.LLMConfig{URL: "http://unused"}, "https://proofly.app", lt)

	direct, err := lt.Check(context.Background(), "Helo how are you", "en-US")
	if err != nil {
		t.Fatal(err)
	}
	viaFallback, err := or.Check(context.Background(), "Helo how are you", "en-US")
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(direct, viaFallback) {
		t.Errorf("fallback result differs from direct rule-based call:\n%+v\nvs\n%+v", direct, viaFallback)
	}
}

func TestOpenRouterUpstreamFailureFallsBack(t *testing.T) {
	orUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer orUpstream.Close()

	ltUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[]}`))
	}))
	defer ltUpstream.Close()

	or := NewOpenRouter(
		config.LLMConfig{URL: orUpstream.URL, APIKey: "sk-or", Model: "test"},
		"https://proofly.app", newLT(ltUpstream.URL),
	)

	errs, err := or.Check(context.Background(), "All good here.", "en-US")
	if err != nil {
		t.Fatalf("expected silent fallback, got error: %v", err)
	}
	if len(errs) != 0 {
		t.Errorf("expected no errors from fallback, got %d", len(errs))
	}
}

func TestOpenRouterMalformedContentFallsBack(t *testing.T) {
	orUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply("no json here")))
	}))
	defer orUpstream.Close()

	ltUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matches":[]}`))
	}))
	defer ltUpstream.Close()

	or := NewOpenRouter(
		config.LLMConfig{URL: orUpstream.URL, APIKey: "sk-or", Model: "test"},
		"https://proofly.app", newLT(ltUpstream.URL),
	)

	if _, err := or.Check(context.Background(), "text", "en-US"); err != nil {
		t.Fatalf("expected silent fallback, got error: %v", err)
	}
}

func TestOpenRouterAttributionHeaders(t *testing.T) {
	content := llmContent(t, []models.GrammarError{})
	orUpstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("HTTP-Referer") != "https://proofly.app" {
			t.Errorf("expected attribution referer, got %q", r.Header.Get("HTTP-Referer"))
		}
		if r.Header.Get("X-Title") == "" {
			t.Error("expected X-Title attribution header")
		}
		w.Write([]byte(chatReply(content)))
	}))
	defer orUpstream.Close()

	or := NewOpenRouter(
		config.LLMConfig{URL: orUpstream.URL, APIKey: "sk-or", Model: "test"},
		"https://proofly.app", nil,
	)

	if _, err := or.Check(context.Background(), "fine text", "en-US"); err != nil {
		t.Fatal(err)
	}
}
