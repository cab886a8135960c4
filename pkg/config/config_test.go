package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Listen != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Listen)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("expected 24h TTL, got %v", cfg.Cache.TTL)
	}
	if cfg.Session.TTL != 30*24*time.Hour {
		t.Errorf("expected 30d session TTL, got %v", cfg.Session.TTL)
	}
	if cfg.Providers.LanguageTool.URL == "" {
		t.Error("expected default LanguageTool URL")
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-test-123")

	content := `
listen: ":9090"
base_url: "https://example.com"
redis:
  addr: "localhost:6379"
  db: 2
providers:
  openai:
    api_key: ${TEST_OPENAI_KEY}
    model: gpt-4o
cache:
  ttl: 1h
audit:
  enabled: true
  db_path: "audit.db"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Listen)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected redis addr: %s", cfg.Redis.Addr)
	}
	if cfg.Redis.DB != 2 {
		t.Errorf("expected redis db 2, got %d", cfg.Redis.DB)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-test-123" {
		t.Errorf("env var not expanded: got %s", cfg.Providers.OpenAI.APIKey)
	}
	if cfg.Providers.OpenAI.Model != "gpt-4o" {
		t.Errorf("unexpected model: %s", cfg.Providers.OpenAI.Model)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.Cache.TTL)
	}
	if !cfg.Audit.Enabled {
		t.Error("expected audit enabled")
	}

	// Fields absent from the file keep their defaults.
	if cfg.Providers.OpenRouter.URL == "" {
		t.Error("expected default OpenRouter URL to survive partial config")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("expected error for missing file")
	}
}
