package minutes

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveTitle builds a human-readable default meeting title from an
// uploaded filename. Timestamp prefixes and separators are stripped
// before title casing.
func DeriveTitle(filename string) string {
	if filename == "" {
		return "Untitled Meeting"
	}
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = trimTimestampPrefix(base)

	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Meeting"
	}
	return cases.Title(language.Und).String(title)
}

// trimTimestampPrefix drops the unix-millisecond prefix that upload
// storage prepends, e.g. "1700000000000-standup" becomes "standup".
func trimTimestampPrefix(base string) string {
	prefix, rest, found := strings.Cut(base, "-")
	if !found || len(prefix) < 10 {
		return base
	}
	for _, r := range prefix {
		if !unicode.IsDigit(r) {
			return base
		}
	}
	return rest
}
