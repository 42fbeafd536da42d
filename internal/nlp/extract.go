// Package nlp holds the pure text-analysis helpers used on every inbound
// message: statistical language detection constrained to the supported pair,
// and best-effort extraction of explicitly declared identity (name, email).
//
// Extraction never errors: absence of a match yields an empty string, and
// the orchestrator must not overwrite existing profile fields with empties.
package nlp

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

// Signals is the result of analyzing one raw message.
type Signals struct {
	Language string // always one of the supported tags
	Name     string // empty when not declared
	Email    string // empty when not found
}

// Extract runs all analyzers over the raw text.
func Extract(text string) Signals {
	return Signals{
		Language: DetectLanguage(text),
		Name:     ExtractName(text),
		Email:    ExtractEmail(text),
	}
}

// detectOptions restricts the detector to the two supported languages so
// short messages cannot wander into unrelated scripts.
var detectOptions = whatlanggo.Options{
	Whitelist: map[whatlanggo.Lang]bool{
		whatlanggo.Eng: true,
		whatlanggo.Spa: true,
	},
}

// DetectLanguage classifies text as "English" or "Spanish". Anything the
// detector cannot confidently place in the whitelist defaults to English.
func DetectLanguage(text string) string {
	if whatlanggo.DetectLangWithOptions(text, detectOptions) == whatlanggo.Spa {
		return domain.LanguageSpanish
	}
	return domain.LanguageEnglish
}

var emailRE = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// ExtractEmail returns the first email-shaped substring, or "". Multiple
// candidates resolve deterministically to the first match.
func ExtractEmail(text string) string {
	return strings.ToLower(emailRE.FindString(text))
}

// nameRE anchors on explicit self-introduction phrases (English and Spanish)
// and captures the remainder up to a sentence terminator.
var nameRE = regexp.MustCompile(`(?i)\b(?:my name is|i am|i'm|mi nombre es|me llamo|soy)\s+([^.,;:!?\n]+)`)

// titleCaser normalizes declared names ("ana maría" -> "Ana María").
var titleCaser = cases.Title(language.Und)

// ExtractName returns a declared display name, or "" when the message
// contains no self-introduction. First match wins.
func ExtractName(text string) string {
	m := nameRE.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return ""
	}
	return titleCaser.String(name)
}
