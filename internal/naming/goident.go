package naming

import (
	"strings"
	"unicode"
)

var commonInitialisms = map[string]bool{
	"API":   true,
	"ASCII": true,
	"CPU":   true,
	"CSS":   true,
	"DNS":   true,
	"EOF":   true,
	"GUID":  true,
	"HTML":  true,
	"HTTP":  true,
	"HTTPS": true,
	"ID":    true,
	"IP":    true,
	"JSON":  true,
	"QPS":   true,
	"RAM":   true,
	"RPC":   true,
	"SLA":   true,
	"SMTP":  true,
	"SQL":   true,
	"SSH":   true,
	"TCP":   true,
	"TLS":   true,
	"TTL":   true,
	"UDP":   true,
	"UI":    true,
	"UID":   true,
	"UUID":  true,
	"URI":   true,
	"URL":   true,
	"UTF8":  true,
	"VM":    true,
	"XML":   true,
	"XSRF":  true,
	"XSS":   true,
}

// SetAdditionalInitialisms adds custom initialisms to the Go naming rules.
// Call it once before generation starts.
func SetAdditionalInitialisms(initialisms []string) {
	for _, init := range initialisms {
		commonInitialisms[strings.ToUpper(init)] = true
	}
}

// GoName converts a wire name (property, parameter or schema name) to an
// exported Go identifier fragment, honoring common initialisms:
// "petId" -> "PetID", "x-request-id" -> "XRequestID".
func GoName(s string) string {
	var result strings.Builder
	for _, word := range splitWords(s) {
		upper := strings.ToUpper(word)
		if commonInitialisms[upper] {
			result.WriteString(upper)
			continue
		}
		result.WriteString(capitalize(word))
	}
	return result.String()
}

// FieldName returns a valid exported Go field or type name for s.
func FieldName(s string) string {
	result := GoName(s)
	if result == "" {
		return "X"
	}
	if unicode.IsDigit(rune(result[0])) {
		return "X" + result
	}
	return result
}

// splitWords breaks s on any non alphanumeric rune and on lower-to-upper
// case transitions.
func splitWords(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	var prev rune
	for i, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = r
			continue
		}
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			flush()
		}
		current = append(current, r)
		prev = r
	}
	flush()

	return words
}

func capitalize(s string) string {
	runes := []rune(s)
	for i := range runes {
		if i == 0 {
			runes[i] = unicode.ToUpper(runes[i])
			continue
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
