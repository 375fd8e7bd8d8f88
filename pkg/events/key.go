package events

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Kind is the outcome class an event reports.
type Kind string

const (
	Success Kind = "success"
	Failure Kind = "failure"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == Success || k == Failure
}

var keyPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// Name returns the event name for a command key and outcome kind.
func Name(key string, kind Kind) string {
	return key + "_" + string(kind)
}

// NormalizeKey derives a command key from a type name: NFC normalised, split
// into words on case changes and separators, lower-cased and joined with "_".
//
//	SignUp        -> sign_up
//	HTTPRequest   -> http_request
//	OAuth2Login   -> o_auth2_login
//	"sign-up form" -> sign_up_form
func NormalizeKey(name string) string {
	name = norm.NFC.String(name)
	lower := cases.Lower(language.Und)

	var words []string
	for _, segment := range strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		for _, word := range splitCamel([]rune(segment)) {
			words = append(words, lower.String(word))
		}
	}
	return strings.Join(words, "_")
}

func splitCamel(runes []rune) []string {
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			continue
		}
		prev := runes[i-1]
		lowerBefore := unicode.IsLower(prev) || unicode.IsDigit(prev)
		acronymEnd := unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if lowerBefore || acronymEnd {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

// ValidateKey checks that key is usable in event names.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("command key is empty")
	}
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("command key %q must be lower-case words joined by '_'", key)
	}
	return nil
}
