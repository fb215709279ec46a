package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"CANVAS_ADDR", "ALLOWED_ORIGINS", "GIN_MODE", "LOG_LEVEL", "MAX_STROKE_WIDTH"} {
		t.Setenv(key, "")
	}

	envs := Load()

	assert.Equal(t, ":5000", envs.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, envs.AllowedOrigins)
	assert.Empty(t, envs.GinMode)
	assert.Equal(t, "debug", envs.LogLevel)
	assert.Zero(t, envs.MaxStrokeWidth)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CANVAS_ADDR", ":9000")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("MAX_STROKE_WIDTH", "40")

	envs := Load()

	assert.Equal(t, ":9000", envs.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, envs.AllowedOrigins)
	assert.Equal(t, "release", envs.GinMode)
	assert.Equal(t, "warn", envs.LogLevel)
	assert.Equal(t, 40, envs.MaxStrokeWidth)
}

func TestLoadIgnoresBadWidth(t *testing.T) {
	t.Setenv("MAX_STROKE_WIDTH", "wide")

	assert.Zero(t, Load().MaxStrokeWidth)
}
