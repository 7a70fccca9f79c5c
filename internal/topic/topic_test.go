package topic_test

import (
	"errors"
	"strings"
	"testing"

	"codequest-server/internal/models"
	"codequest-server/internal/topic"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Docker", "docker"},
		{"trims whitespace", "  docker  ", "docker"},
		{"case and whitespace collapse", "  DoCkEr ", "docker"},
		{"keeps inner spaces", "Design Patterns", "design patterns"},
		{"empty stays empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, topic.Normalize(tt.in))
		})
	}
}

func TestValidateQuizTopic(t *testing.T) {
	t.Run("Accepts plain technical topics", func(t *testing.T) {
		for _, in := range []string{"docker", "Design Patterns", "Go 1x24", "programação", "event-driven"} {
			assert.NoError(t, topic.ValidateQuizTopic(in), in)
		}
	})

	t.Run("Rejects empty and oversized topics", func(t *testing.T) {
		assert.ErrorIs(t, topic.ValidateQuizTopic("  "), models.ErrInvalidTopic)
		assert.ErrorIs(t, topic.ValidateQuizTopic(strings.Repeat("a", 101)), models.ErrInvalidTopic)
		assert.ErrorIs(t, topic.ValidateQuizTopic(strings.Repeat("ç", 101)), models.ErrInvalidTopic)
	})

	t.Run("Length limit counts runes, not bytes", func(t *testing.T) {
		// 51 accented letters are 102 bytes but well under the limit.
		assert.NoError(t, topic.ValidateQuizTopic(strings.Repeat("é", 51)))
		assert.NoError(t, topic.ValidateQuizTopic(strings.Repeat("é", 100)))
	})

	t.Run("Rejects disallowed characters", func(t *testing.T) {
		for _, in := range []string{"docker; drop table", "a/b", "x=y", "{{payload}}"} {
			assert.ErrorIs(t, topic.ValidateQuizTopic(in), models.ErrInvalidTopic, in)
		}
	})

	t.Run("Rejects SSRF style payloads", func(t *testing.T) {
		for _, in := range []string{
			"http://localhost/admin",
			"LOCALHOST admin panel",
			"visit 169.254.169.254 now",
			"file:///etc/passwd",
		} {
			err := topic.ValidateQuizTopic(in)
			assert.True(t, errors.Is(err, models.ErrInvalidTopic), in)
		}
	})
}
