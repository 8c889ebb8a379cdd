package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCode is used for passport/ID document numbers and room numbers.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// NormalizeText trims free text such as notes and descriptions; inner
// line breaks are kept.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}

// Ptr applies fn to the value behind p, if any. Update payloads carry
// optional fields as pointers.
func Ptr(p *string, fn func(string) string) {
	if p != nil {
		*p = fn(*p)
	}
}
