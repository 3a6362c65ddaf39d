// Package sanitize cleans text that crosses the backend boundary (category
// names, feature labels, error details) before an adapter displays it.
//
// Control keeps the text as sent and is what the client applies by default;
// adapters escape on their own terms. Text additionally strips markup for
// deployments that do not trust the backend to send plain strings.
package sanitize

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Control trims s and removes control characters. Line breaks and tabs become
// spaces so a message stays on one line.
func Control(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}

// Text returns s with every HTML element removed and entities decoded, so the
// result is plain text that each adapter escapes on its own terms.
func Text(s string) string {
	trimmed := Control(s)
	if trimmed == "" {
		return ""
	}
	if !strings.ContainsAny(trimmed, "<>&") {
		return trimmed
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
