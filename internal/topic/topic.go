// Package topic contains the key derivation and input sanitization rules
// shared by the analysis and arena services.
package topic

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"codequest-server/internal/models"
)

// MaxTopicLength bounds user-supplied topics, in runes, before they reach
// a prompt.
const MaxTopicLength = 100

// Normalize derives the canonical cache key for a free-form topic string.
// Case and surrounding whitespace variants of the same topic collapse to a
// single key ("Docker" and " docker " are the same entry). Pure function;
// an empty result is a valid-but-useless key, callers reject empty topics
// before getting here.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// allowedTopicPattern is the permissive charset for quiz topics: letters
// (including accented Latin), digits, whitespace and hyphens.
var allowedTopicPattern = regexp.MustCompile(`^[\p{L}\p{N}\s\-]+$`)

// blockedTokens are infrastructure/protocol fragments that must never make
// it into a prompt. The topic string could otherwise smuggle SSRF targets
// or scheme prefixes toward tooling that interprets generated output.
// Matched case-insensitively as substrings.
var blockedTokens = []string{
	"localhost",
	"127.0.0.1",
	"0.0.0.0",
	"169.254.169.254",
	"metadata.google.internal",
	"metadata.internal",
	"http:",
	"https:",
	"file:",
	"ftp:",
	"gopher:",
	"ldap:",
	"dict:",
}

// ValidateQuizTopic enforces the arena topic rules before any AI call:
// non-empty, bounded length, permissive charset, no blocked tokens.
// Every failure wraps models.ErrInvalidTopic.
func ValidateQuizTopic(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fmt.Errorf("%w: topic is empty", models.ErrInvalidTopic)
	}
	if utf8.RuneCountInString(trimmed) > MaxTopicLength {
		return fmt.Errorf("%w: topic exceeds %d characters", models.ErrInvalidTopic, MaxTopicLength)
	}
	if !allowedTopicPattern.MatchString(trimmed) {
		return fmt.Errorf("%w: topic contains disallowed characters", models.ErrInvalidTopic)
	}
	lowered := strings.ToLower(trimmed)
	for _, token := range blockedTokens {
		if strings.Contains(lowered, token) {
			return fmt.Errorf("%w: topic contains blocked token %q", models.ErrInvalidTopic, token)
		}
	}
	return nil
}
