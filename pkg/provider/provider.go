// Package provider implements the three grammar-checking backends
// behind one capability: check a text in a language and return a
// normalized error list. The LanguageTool client talks to a public
// correction-rule service; the OpenAI and OpenRouter clients share a
// structured-prompt contract against chat-completion APIs. OpenRouter
// degrades to LanguageTool on any failure.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/proofly-ai/proofly/pkg/config"
	"github.com/proofly-ai/proofly/pkg/models"
)

// Provider identifiers accepted in check requests.
const (
	NameLanguageTool = "languagetool"
	NameOpenAI       = "openai"
	NameOpenRouter   = "openrouter"
)

// Client checks text in a given language and returns normalized errors.
type Client interface {
	Name() string
	Check(ctx context.Context, text, language string) ([]models.GrammarError, error)
}

// Error is a failure of an upstream checking backend.
type Error struct {
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// defaultHTTPClient is shared by all providers. Timeouts beyond this
// come from the caller's context.
var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// NewClients builds the provider registry from configuration, keyed by
// provider identifier. The OpenRouter client wraps the LanguageTool
// client as its fallback.
func NewClients(cfg *config.Config) map[string]Client {
	lt := NewLanguageTool(cfg.Providers.LanguageTool)
	return map[string]Client{
		NameLanguageTool: lt,
		NameOpenAI:       NewOpenAI(cfg.Providers.OpenAI),
		NameOpenRouter:   NewOpenRouter(cfg.Providers.OpenRouter, cfg.BaseURL, lt),
	}
}

// capReplacements truncates every error's replacement list to
// models.MaxReplacements candidates.
func capReplacements(errs []models.GrammarError) []models.GrammarError {
	for i := range errs {
		if len(errs[i].Replacements) > models.MaxReplacements {
			errs[i].Replacements = errs[i].Replacements[:models.MaxReplacements]
		}
	}
	return errs
}
