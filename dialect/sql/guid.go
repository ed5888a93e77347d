package sql

import (
	"regexp"

	"github.com/google/uuid"
)

var guidRe = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// NewGUID returns a random RFC 4122 version 4 identifier in lower case.
func NewGUID() string {
	return uuid.NewString()
}

// IsGUID reports whether s is exactly one GUID, with or without braces.
func IsGUID(s string) bool {
	if len(s) == 38 && s[0] == '{' && s[37] == '}' {
		s = s[1:37]
	}
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// ExtractGUID returns the first GUID found in s.
func ExtractGUID(s string) (string, bool) {
	m := guidRe.FindString(s)
	return m, m != ""
}
