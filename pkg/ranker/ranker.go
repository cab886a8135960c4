// Package ranker reorders candidate replacement strings by contextual
// plausibility. It is a handcrafted heuristic, not a language model:
// its only job is to keep nonsensical top suggestions from the
// rule-based backend out of the first slot.
package ranker

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// commonWords is a fixed set of high-frequency English words.
var commonWords = map[string]bool{
	"the": true, "be": true, "to": true, "of": true, "and": true,
	"a": true, "in": true, "that": true, "have": true, "it": true,
	"for": true, "not": true, "on": true, "with": true, "he": true,
	"as": true, "you": true, "do": true, "at": true, "this": true,
	"but": true, "his": true, "by": true, "from": true, "they": true,
	"we": true, "say": true, "her": true, "she": true, "or": true,
	"an": true, "will": true, "my": true, "one": true, "all": true,
	"would": true, "there": true, "their": true, "what": true,
	"so": true, "up": true, "out": true, "if": true, "about": true,
	"who": true, "get": true, "which": true, "go": true, "me": true,
	"when": true, "can": true, "like": true, "time": true, "no": true,
	"just": true, "him": true, "know": true, "take": true, "people": true,
	"hello": true, "help": true, "world": true, "how": true, "are": true,
	"is": true, "was": true, "your": true, "good": true, "here": true,
}

// greetings are candidates favored at the start of a sentence.
var greetings = map[string]bool{
	"hello": true, "hi": true, "hey": true, "dear": true,
	"greetings": true, "welcome": true,
}

// contextWindow is how many characters around the error are inspected
// for the narrow context bonuses.
const contextWindow = 50

// Rank returns replacements reordered by descending plausibility for
// replacing original at the given character offset in text. Ties keep
// their input order. Ranking an already-ranked list is a no-op.
func Rank(replacements []string, original, text string, offset int) []string {
	if len(replacements) < 2 {
		return replacements
	}

	type candidate struct {
		term  string
		score float64
	}
	scored := make([]candidate, len(replacements))
	for i, r := range replacements {
		scored[i] = candidate{term: r, score: Score(r, original, text, offset)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	out := make([]string, len(scored))
	for i, c := range scored {
		out[i] = c.term
	}
	return out
}

// Score computes the additive plausibility score for a single
// candidate. All terms apply; there is no early exit.
func Score(candidate, original, text string, offset int) float64 {
	lc := strings.ToLower(candidate)
	lo := strings.ToLower(original)
	score := 0.0

	if commonWords[lc] {
		score += 10
	}
	if atSentenceStart(text, offset) && greetings[lc] {
		score += 15
	}
	if capitalizationMatches(candidate, original) {
		score += 5
	}

	lenDiff := float64(len([]rune(candidate)) - len([]rune(original)))
	score -= 0.5 * math.Abs(lenDiff)
	score -= float64(Levenshtein(lo, lc))

	window := contextAround(text, offset)
	if lc == "hello" && strings.Contains(window, "how") {
		score += 20
	}
	if lc == "help" && (strings.Contains(window, "need") || strings.Contains(window, "can")) {
		score += 10
	}

	return score
}

// atSentenceStart reports whether the character at offset begins a
// sentence: either the very start of the text, or preceded, ignoring
// whitespace, by '.', '!' or '?'.
func atSentenceStart(text string, offset int) bool {
	if offset == 0 {
		return true
	}
	runes := []rune(text)
	if offset > len(runes) {
		return false
	}
	for i := offset - 1; i >= 0; i-- {
		r := runes[i]
		if unicode.IsSpace(r) {
			continue
		}
		return r == '.' || r == '!' || r == '?'
	}
	return true
}

// capitalizationMatches reports whether the first letters of candidate
// and original agree in case.
func capitalizationMatches(candidate, original string) bool {
	cr := []rune(candidate)
	or := []rune(original)
	if len(cr) == 0 || len(or) == 0 {
		return false
	}
	return unicode.IsUpper(cr[0]) == unicode.IsUpper(or[0])
}

// contextAround returns the lowercased window of text surrounding the
// error offset.
func contextAround(text string, offset int) string {
	runes := []rune(text)
	if offset < 0 {
		offset = 0
	}
	if offset > len(runes) {
		offset = len(runes)
	}
	start := offset - contextWindow
	if start < 0 {
		start = 0
	}
	end := offset + contextWindow
	if end > len(runes) {
		end = len(runes)
	}
	return strings.ToLower(string(runes[start:end]))
}
