package checker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/proofly-ai/proofly/pkg/cache"
	"github.com/proofly-ai/proofly/pkg/models"
	"github.com/proofly-ai/proofly/pkg/provider"
)

// memStore is an in-memory cache.Store for tests.
type memStore struct {
	mu       sync.Mutex
	entries  map[string][]models.GrammarError
	usage    map[string]int
	sessions map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		entries:  make(map[string][]models.GrammarError),
		usage:    make(map[string]int),
		sessions: make(map[string]bool),
	}
}

func (m *memStore) Get(_ context.Context, key string) ([]models.GrammarError, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	errs, ok := m.entries[key]
	return errs, ok
}

func (m *memStore) Set(_ context.Context, key string, errs []models.GrammarError, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = errs
}

func (m *memStore) IncrementProviderUsage(_ context.Context, p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage[p]++
}

func (m *memStore) TrackSession(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = true
}

func (m *memStore) Exists(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func (m *memStore) Ping(context.Context) error { return nil }
func (m *memStore) Close() error               { return nil }

func (m *memStore) waitFor(t *testing.T, key string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := m.Get(context.Background(), key); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for cache key %s", key)
}

// stubProvider counts calls and returns a fixed result.
type stubProvider struct {
	mu       sync.Mutex
	name     string
	calls    int
	language string
	result   []models.GrammarError
	err      error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Check(_ context.Context, _, language string) ([]models.GrammarError, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.language = language
	return p.result, p.err
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestService(store cache.Store, p *stubProvider) *Service {
	return New(store, map[string]provider.Client{p.name: p}, nil, time.Hour)
}

func TestCheckOversizeText(t *testing.T) {
	p := &stubProvider{name: provider.NameLanguageTool}
	svc := newTestService(newMemStore(), p)

	req := models.CheckRequest{
		Text:     strings.Repeat("a", MaxTextLength+1),
		Provider: provider.NameLanguageTool,
	}
	_, err := svc.Check(context.Background(), req)

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if p.callCount() != 0 {
		t.Error("provider must not be called for invalid requests")
	}
}

func TestCheckEmptyText(t *testing.T) {
	p := &stubProvider{name: provider.NameLanguageTool}
	svc := newTestService(newMemStore(), p)

	_, err := svc.Check(context.Background(), models.CheckRequest{Provider: provider.NameLanguageTool})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for empty text, got %v", err)
	}
}

func TestCheckUnknownProvider(t *testing.T) {
	p := &stubProvider{name: provider.NameLanguageTool}
	svc := newTestService(newMemStore(), p)

	_, err := svc.Check(context.Background(), models.CheckRequest{Text: "hi", Provider: "grammarly"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unknown provider, got %v", err)
	}
}

func TestCheckMissDispatchesAndStores(t *testing.T) {
	found := []models.GrammarError{{Message: "typo", Offset: 0, Length: 4, Replacements: []string{"hello"}}}
	p := &stubProvider{name: provider.NameLanguageTool, result: found}
	store := newMemStore()
	svc := newTestService(store, p)

	req := models.CheckRequest{Text: "Helo there", Provider: provider.NameLanguageTool}
	resp, err := svc.Check(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if resp.Metadata.Cached {
		t.Error("expected cached=false on a miss")
	}
	if resp.Metadata.Provider != provider.NameLanguageTool {
		t.Errorf("unexpected provider in metadata: %s", resp.Metadata.Provider)
	}
	if resp.Metadata.Language != DefaultLanguage {
		t.Errorf("expected default language, got %s", resp.Metadata.Language)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(resp.Errors))
	}
	if p.callCount() != 1 {
		t.Errorf("expected 1 provider call, got %d", p.callCount())
	}

	// Cache write is fire-and-forget; wait for it to land.
	key := cache.Key(provider.NameLanguageTool, DefaultLanguage, "Helo there")
	store.waitFor(t, key)
}

func TestCheckCacheHitSkipsProvider(t *testing.T) {
	cached := []models.GrammarError{{Message: "typo", Offset: 0, Length: 4, Replacements: []string{"hello"}}}
	p := &stubProvider{name: provider.NameLanguageTool}
	store := newMemStore()
	key := cache.Key(provider.NameLanguageTool, "en-US", "Helo there")
	store.Set(context.Background(), key, cached, time.Hour)

	svc := newTestService(store, p)
	resp, err := svc.Check(context.Background(), models.CheckRequest{
		Text:     "Helo there",
		Provider: provider.NameLanguageTool,
		Language: "en-US",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !resp.Metadata.Cached {
		t.Error("expected cached=true on a hit")
	}
	if p.callCount() != 0 {
		t.Error("provider must not be called on a cache hit")
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Message != "typo" {
		t.Errorf("unexpected cached errors: %+v", resp.Errors)
	}
}

func TestCheckProviderFailurePropagates(t *testing.T) {
	p := &stubProvider{
		name: provider.NameOpenAI,
		err:  &provider.Error{Provider: provider.NameOpenAI, Message: "no API key configured"},
	}
	svc := newTestService(newMemStore(), p)

	_, err := svc.Check(context.Background(), models.CheckRequest{Text: "hi there", Provider: provider.NameOpenAI})
	var pe *provider.Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected provider.Error, got %v", err)
	}
}

func TestCheckTracksSession(t *testing.T) {
	p := &stubProvider{name: provider.NameLanguageTool}
	store := newMemStore()
	svc := newTestService(store, p)

	_, err := svc.Check(context.Background(), models.CheckRequest{
		Text:      "fine text",
		Provider:  provider.NameLanguageTool,
		SessionID: "sess-42",
	})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		store.mu.Lock()
		tracked := store.sessions["sess-42"]
		store.mu.Unlock()
		if tracked {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("expected session to be tracked")
}

func TestCheckEmptyResultKeepsEmptySlice(t *testing.T) {
	p := &stubProvider{name: provider.NameLanguageTool, result: nil}
	svc := newTestService(newMemStore(), p)

	resp, err := svc.Check(context.Background(), models.CheckRequest{
		Text:     "All good.",
		Provider: provider.NameLanguageTool,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Errors == nil {
		t.Error("errors must serialize as [] rather than null")
	}
}
