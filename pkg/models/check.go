package models

// ErrorType classifies a grammar error into one of five categories.
type ErrorType string

const (
	ErrorTypeGrammar     ErrorType = "grammar"
	ErrorTypeSpelling    ErrorType = "spelling"
	ErrorTypeStyle       ErrorType = "style"
	ErrorTypePunctuation ErrorType = "punctuation"
	ErrorTypeOther       ErrorType = "other"
)

// MaxReplacements caps the number of candidate replacements returned
// per error, across all providers.
const MaxReplacements = 5

// Rule identifies the checking rule that produced an error.
type Rule struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ErrorContext carries a display snippet around the error location.
type ErrorContext struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// GrammarError is a single normalized error found in the submitted text.
// Offset is a character index into the original text; offset+length
// never exceeds the length of the text that produced it.
type GrammarError struct {
	Message      string        `json:"message"`
	ShortMessage string        `json:"shortMessage,omitempty"`
	Offset       int           `json:"offset"`
	Length       int           `json:"length"`
	Replacements []string      `json:"replacements"`
	Rule         Rule          `json:"rule"`
	Type         ErrorType     `json:"type"`
	Context      *ErrorContext `json:"context,omitempty"`
}

// CheckRequest is the request consumed from the UI layer.
type CheckRequest struct {
	Text      string `json:"text"`
	Provider  string `json:"provider"`
	SessionID string `json:"sessionId"`
	Language  string `json:"language,omitempty"`
}

// Metadata describes how a check response was produced.
// ProcessingTime and Timestamp are in milliseconds.
type Metadata struct {
	Provider       string `json:"provider"`
	ProcessingTime int64  `json:"processingTime"`
	Cached         bool   `json:"cached"`
	Timestamp      int64  `json:"timestamp"`
	Language       string `json:"language"`
}

// CheckResponse is the envelope returned to the caller. It is built
// once per request and never mutated afterward.
type CheckResponse struct {
	Errors   []GrammarError `json:"errors"`
	Metadata Metadata       `json:"metadata"`
}
