package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/proofly-ai/proofly/pkg/models"
)

// chatRequest is the chat-completions payload shared by the OpenAI and
// OpenRouter clients.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// llmTemperature keeps language-model output consistent across
// identical requests.
const llmTemperature = 0.1

const systemPrompt = `You are a grammar checker. Analyze the provided text and report every grammar, spelling, style, and punctuation error. Respond with a JSON object only, no prose, in this exact shape:
{"errors":[{"message":"...","shortMessage":"...","offset":0,"length":1,"replacements":["..."],"rule":{"id":"...","description":"...","category":"..."},"type":"grammar|spelling|style|punctuation|other"}]}
Offsets are zero-based character indexes into the original text. Order replacements from most to least plausible. If the text has no errors, return {"errors":[]}.`

// buildMessages constructs the instruction prompt for a check call.
func buildMessages(text, language string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Language: %s\nText:\n%s", language, text)},
	}
}

// parseLLMErrors extracts the normalized error list from a model
// response. It tolerates markdown code fences around the JSON but
// nothing else.
func parseLLMErrors(content, text string) ([]models.GrammarError, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty completion content")
	}
	content = stripCodeFence(content)

	var parsed struct {
		Errors []models.GrammarError `json:"errors"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse completion JSON: %w", err)
	}

	return clampOffsets(parsed.Errors, text), nil
}

// stripCodeFence removes a surrounding ```json ... ``` block if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// clampOffsets drops errors whose positions cannot refer to the text
// and clamps spans that overrun its end, keeping the offset+length
// invariant intact even when the model miscounts.
func clampOffsets(errs []models.GrammarError, text string) []models.GrammarError {
	n := len([]rune(text))
	out := errs[:0]
	for _, e := range errs {
		if e.Offset < 0 || e.Offset >= n || e.Length <= 0 {
			continue
		}
		if e.Offset+e.Length > n {
			e.Length = n - e.Offset
		}
		if e.Type == "" {
			e.Type = models.ErrorTypeOther
		}
		out = append(out, e)
	}
	return out
}
