package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/proofly-ai/proofly/pkg/config"
	"github.com/proofly-ai/proofly/pkg/models"
)

// OpenAI is the premium language-model checking backend. It has no
// fallback: a missing credential or any upstream failure surfaces as a
// provider error.
type OpenAI struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// NewOpenAI creates an OpenAI client.
func NewOpenAI(cfg config.LLMConfig) *OpenAI {
	return &OpenAI{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: defaultHTTPClient,
	}
}

func (o *OpenAI) Name() string { return NameOpenAI }

// Check submits text with the structured instruction prompt and parses
// the model's JSON error list.
func (o *OpenAI) Check(ctx context.Context, text, language string) ([]models.GrammarError, error) {
	if o.apiKey == "" {
		return nil, &Error{Provider: NameOpenAI, Message: "no API key configured"}
	}

	content, err := completeChat(ctx, o.client, o.url, o.model, text, language, map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	})
	if err != nil {
		return nil, &Error{Provider: NameOpenAI, Message: "completion failed", Err: err}
	}

	errs, err := parseLLMErrors(content, text)
	if err != nil {
		return nil, &Error{Provider: NameOpenAI, Message: "unusable completion", Err: err}
	}
	return capReplacements(errs), nil
}

// completeChat performs one chat-completions call and returns the
// first choice's content.
func completeChat(ctx context.Context, client *http.Client, url, model, text, language string, headers map[string]string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    buildMessages(text, language),
		Temperature: llmTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
