package schemas_test

import (
	"strings"
	"testing"

	"codequest-server/internal/models"
	"codequest-server/internal/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForDepth(t *testing.T) {
	t.Run("Each known depth has its own schema", func(t *testing.T) {
		names := make(map[string]bool)
		for _, depth := range []models.Depth{
			models.DepthInitial, models.DepthDeep, models.DepthPatterns, models.DepthTroubleshooting,
		} {
			cfg := schemas.ForDepth(depth)
			require.NotNil(t, cfg.Schema, "depth %s", depth)
			assert.NotEmpty(t, cfg.SystemPrompt, "depth %s", depth)
			assert.False(t, names[cfg.Schema.Name], "schema names must be distinct: %s", cfg.Schema.Name)
			names[cfg.Schema.Name] = true
		}
	})

	t.Run("Unknown depth falls back to deep", func(t *testing.T) {
		fallback := schemas.ForDepth(models.Depth("nonsense"))
		deep := schemas.ForDepth(models.DepthDeep)
		assert.Equal(t, deep.Schema.Name, fallback.Schema.Name)
		assert.Equal(t, deep.SystemPrompt, fallback.SystemPrompt)
	})
}

func TestBuildQuizUserInput(t *testing.T) {
	t.Run("Embeds topic and difficulty framing", func(t *testing.T) {
		prompt := schemas.BuildQuizUserInput("docker", "hard")
		assert.Contains(t, prompt, "'docker'")
		assert.Contains(t, prompt, "advanced")
		assert.Contains(t, prompt, "\"questions\"")
	})

	t.Run("Unknown difficulty uses intermediate framing", func(t *testing.T) {
		prompt := schemas.BuildQuizUserInput("docker", "ultra")
		assert.True(t, strings.Contains(prompt, "intermediate"))
	})
}
