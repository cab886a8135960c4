package provider

import (
	"context"
	"log"

	"github.com/proofly-ai/proofly/pkg/config"
	"github.com/proofly-ai/proofly/pkg/models"
)

// OpenRouter is the free-tier language-model backend. It shares the
// prompt contract with OpenAI but degrades gracefully: a missing
// credential or any failure silently delegates to the wrapped
// rule-based client instead of propagating an error.
type OpenRouter struct {
	url      string
	apiKey   string
	model    string
	baseURL  string
	fallback Client
}

// NewOpenRouter creates an OpenRouter client wrapping fallback.
// baseURL is sent as the attribution referer on outbound calls.
func NewOpenRouter(cfg config.LLMConfig, baseURL string, fallback Client) *OpenRouter {
	return &OpenRouter{
		url:      cfg.URL,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		baseURL:  baseURL,
		fallback: fallback,
	}
}

func (o *OpenRouter) Name() string { return NameOpenRouter }

// Check tries the OpenRouter completion and falls back to the
// rule-based client on any failure.
func (o *OpenRouter) Check(ctx context.Context, text, language string) ([]models.GrammarError, error) {
	if o.apiKey == "" {
		return o.fallback.Check(ctx, text, language)
	}

	content, err := completeChat(ctx, defaultHTTPClient, o.url, o.model, text, language, map[string]string{
		"Authorization": "Bearer " + o.apiKey,
		"HTTP-Referer":  o.baseURL,
		"X-Title":       "Proofly",
	})
	if err != nil {
		log.Printf("openrouter completion failed, falling back to languagetool: %v", err)
		return o.fallback.Check(ctx, text, language)
	}

	errs, err := parseLLMErrors(content, text)
	if err != nil {
		log.Printf("openrouter returned unusable completion, falling back to languagetool: %v", err)
		return o.fallback.Check(ctx, text, language)
	}
	return capReplacements(errs), nil
}
