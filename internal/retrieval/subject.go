package retrieval

import (
	"strings"
	"unicode"

	"github.com/pautahq/pauta/internal/domain/fact"
)

// NormalizeText lowercases, strips punctuation, and collapses whitespace so
// near-identical fact texts cluster together.
func NormalizeText(text string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
		// Punctuation and symbols are dropped.
	}
	return strings.TrimSpace(b.String())
}

// genericSubjects are phrasings that name a meeting format rather than a
// topic. A subject that reduces to one of these carries no retrieval signal.
var genericSubjects = map[string]bool{
	"reuniao":            true,
	"reuniao de equipe":  true,
	"reuniao semanal":    true,
	"alinhamento":        true,
	"alinhamento geral":  true,
	"sync":               true,
	"weekly":             true,
	"weekly sync":        true,
	"meeting":            true,
	"team meeting":       true,
	"status":             true,
	"status update":      true,
	"checkin":            true,
	"check in":           true,
	"1 1":                true,
	"call":               true,
	"daily":              true,
	"standup":            true,
	"proxima reuniao":    true,
	"next meeting":       true,
	"pauta":              true,
	"agenda":             true,
}

// IsGenericSubject reports whether the subject names a meeting format
// instead of an actual topic.
func IsGenericSubject(subject string) bool {
	key := stripDiacritics(NormalizeText(subject))
	if key == "" {
		return true
	}
	return genericSubjects[key]
}

// InferSubject derives a working subject from recent facts when the request
// itself did not name one. Meeting metadata wins; otherwise the text of the
// most recent high-signal fact is used. Returns "" when nothing usable exists.
func InferSubject(recent []fact.Fact) string {
	for _, f := range recent {
		if f.Type != fact.TypeMeetingMeta {
			continue
		}
		payload := f.PayloadMap()
		for _, key := range []string{"subject", "next_subject", "title"} {
			if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}

	for _, t := range []string{fact.TypeDecisionNeeded, fact.TypeBlocker, fact.TypeRisk, fact.TypeTopic, fact.TypeObjective} {
		for _, f := range recent {
			if f.Type != t {
				continue
			}
			if text := f.Text(); text != "" {
				return text
			}
		}
	}
	return ""
}

// stripDiacritics folds the accented vowels and cedilla common in Portuguese
// text down to ASCII so lookups do not depend on accent usage.
func stripDiacritics(s string) string {
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ã", "a",
		"é", "e", "ê", "e",
		"í", "i",
		"ó", "o", "ô", "o", "õ", "o",
		"ú", "u", "ü", "u",
		"ç", "c",
	)
	return replacer.Replace(s)
}
