// Package moderation implements the pre-completion content gate.
//
// The check is a plain case-insensitive substring match against the
// configurable wordlist from the admin settings. It is a safety gate, not a
// classifier; the substring semantics must stay byte-compatible with the
// stored wordlists.
package moderation

import "strings"

// IsAllowed reports whether text passes the wordlist gate.
// Empty text is never allowed (invalid input, not a pass).
func IsAllowed(text string, wordlist []string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	for _, w := range wordlist {
		if w == "" {
			continue
		}
		if strings.Contains(t, strings.ToLower(w)) {
			return false
		}
	}
	return true
}
