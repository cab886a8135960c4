package config

import (
	"fmt"
	"os"
	"time"

	"github.com/proofly-ai/proofly/pkg/models"
	"gopkg.in/yaml.v3"
)

// Config holds all Proofly configuration.
type Config struct {
	Listen    string             `yaml:"listen"`
	BaseURL   string             `yaml:"base_url"`
	Redis     RedisConfig        `yaml:"redis"`
	Providers ProvidersConfig    `yaml:"providers"`
	Cache     CacheConfig        `yaml:"cache"`
	Session   SessionConfig      `yaml:"session"`
	Audit     models.AuditConfig `yaml:"audit"`
}

// RedisConfig points at the result cache store. Caching and session
// tracking are enabled only when Addr is non-empty.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ProvidersConfig defines the three checking backends.
type ProvidersConfig struct {
	LanguageTool LanguageToolConfig `yaml:"languagetool"`
	OpenAI       LLMConfig          `yaml:"openai"`
	OpenRouter   LLMConfig          `yaml:"openrouter"`
}

// LanguageToolConfig defines the rule-based checking service.
type LanguageToolConfig struct {
	URL string `yaml:"url"`
}

// LLMConfig defines a language-model checking backend.
type LLMConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// CacheConfig controls result cache expiry.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// SessionConfig controls session marker expiry.
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// Default returns a Config with sensible defaults. Credentials and the
// Redis address are picked up from the environment so that a bare
// `proofly serve` works without a config file.
func Default() *Config {
	return &Config{
		Listen:  ":8080",
		BaseURL: getenv("PROOFLY_BASE_URL", "https://proofly.app"),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Providers: ProvidersConfig{
			LanguageTool: LanguageToolConfig{
				URL: "https://api.languagetool.org/v2/check",
			},
			OpenAI: LLMConfig{
				URL:    "https://api.openai.com/v1/chat/completions",
				APIKey: os.Getenv("OPENAI_API_KEY"),
				Model:  "gpt-4o-mini",
			},
			OpenRouter: LLMConfig{
				URL:    "https://openrouter.ai/api/v1/chat/completions",
				APIKey: os.Getenv("OPENROUTER_API_KEY"),
				Model:  "meta-llama/llama-3.1-8b-instruct:free",
			},
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		Session: SessionConfig{
			TTL: 30 * 24 * time.Hour,
		},
		Audit: models.AuditConfig{
			DBPath:        "proofly-audit.db",
			RetentionDays: 90,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
