package sanitization

import (
	"regexp"
	"strings"
)

var controlRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

// SanitizeString collapses runs of whitespace into single spaces and trims.
// Output is escaped by the templates, so no HTML handling happens here.
func SanitizeString(input string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(input), " "))
}

// SanitizeEmail trims an email address and lowercases its domain. The local
// part is case sensitive and is kept as typed.
func SanitizeEmail(input string) string {
	email := strings.TrimSpace(input)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// SanitizeMessage normalizes line endings, strips control characters other
// than tab and newline, and trims surrounding whitespace. Spacing inside the
// message is kept as typed.
func SanitizeMessage(input string) string {
	msg := strings.ReplaceAll(input, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = controlRegex.ReplaceAllString(msg, "")
	return strings.TrimSpace(msg)
}
