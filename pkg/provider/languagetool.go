package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/proofly-ai/proofly/pkg/config"
	"github.com/proofly-ai/proofly/pkg/models"
	"github.com/proofly-ai/proofly/pkg/ranker"
)

// LanguageTool is the rule-based checking backend. It submits text to
// a LanguageTool-compatible /v2/check endpoint and normalizes the
// match list, re-ranking each match's replacements by contextual
// plausibility before capping them.
type LanguageTool struct {
	url    string
	client *http.Client
}

// NewLanguageTool creates a LanguageTool client.
func NewLanguageTool(cfg config.LanguageToolConfig) *LanguageTool {
	return &LanguageTool{url: cfg.URL, client: defaultHTTPClient}
}

func (lt *LanguageTool) Name() string { return NameLanguageTool }

// ltResponse mirrors the LanguageTool /v2/check payload.
type ltResponse struct {
	Matches []ltMatch `json:"matches"`
}

type ltMatch struct {
	Message      string `json:"message"`
	ShortMessage string `json:"shortMessage"`
	Offset       int    `json:"offset"`
	Length       int    `json:"length"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
	Rule struct {
		ID          string `json:"id"`
		Description string `json:"description"`
		IssueType   string `json:"issueType"`
		Category    struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"category"`
	} `json:"rule"`
	Context struct {
		Text   string `json:"text"`
		Offset int    `json:"offset"`
		Length int    `json:"length"`
	} `json:"context"`
}

// Check submits text to the rule service and returns normalized errors.
func (lt *LanguageTool) Check(ctx context.Context, text, language string) ([]models.GrammarError, error) {
	form := url.Values{
		"text":     {text},
		"language": {language},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &Error{Provider: NameLanguageTool, Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := lt.client.Do(req)
	if err != nil {
		return nil, &Error{Provider: NameLanguageTool, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{
			Provider: NameLanguageTool,
			Message:  fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var parsed ltResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &Error{Provider: NameLanguageTool, Message: "malformed response", Err: err}
	}

	runes := []rune(text)
	errs := make([]models.GrammarError, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		replacements := make([]string, 0, len(m.Replacements))
		for _, r := range m.Replacements {
			replacements = append(replacements, r.Value)
		}

		original := sliceText(runes, m.Offset, m.Length)
		replacements = ranker.Rank(replacements, original, text, m.Offset)

		ge := models.GrammarError{
			Message:      m.Message,
			ShortMessage: m.ShortMessage,
			Offset:       m.Offset,
			Length:       m.Length,
			Replacements: replacements,
			Rule: models.Rule{
				ID:          m.Rule.ID,
				Description: m.Rule.Description,
				Category:    m.Rule.Category.Name,
			},
			Type: mapErrorType(m.Rule.Category.ID, m.Rule.Category.Name, m.Rule.IssueType),
		}
		if m.Context.Text != "" {
			ge.Context = &models.ErrorContext{
				Text:   m.Context.Text,
				Offset: m.Context.Offset,
				Length: m.Context.Length,
			}
		}
		errs = append(errs, ge)
	}

	return capReplacements(errs), nil
}

// sliceText returns the erroneous span, clamped to the text bounds.
func sliceText(runes []rune, offset, length int) string {
	if offset < 0 || offset >= len(runes) {
		return ""
	}
	end := offset + length
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[offset:end])
}

// mapErrorType maps LanguageTool's category/issue-type taxonomy onto
// the five-member ErrorType enum by case-insensitive substring match.
func mapErrorType(categoryID, categoryName, issueType string) models.ErrorType {
	s := strings.ToLower(categoryID + " " + categoryName + " " + issueType)
	switch {
	// "typograph" must be tested before "typo": TYPOGRAPHY is a style
	// category, TYPOS is the spelling one.
	case strings.Contains(s, "style") || strings.Contains(s, "typograph") || strings.Contains(s, "redundan"):
		return models.ErrorTypeStyle
	case strings.Contains(s, "spell") || strings.Contains(s, "typo") || strings.Contains(s, "misspell"):
		return models.ErrorTypeSpelling
	case strings.Contains(s, "punct"):
		return models.ErrorTypePunctuation
	case strings.Contains(s, "grammar"):
		return models.ErrorTypeGrammar
	default:
		return models.ErrorTypeOther
	}
}
