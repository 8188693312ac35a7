package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "DB_DRIVER", "SAVE_SCHEDULE", "TICK_INTERVAL", "MIN_OFFLINE", "LLM_PROVIDER"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "@every 30s", cfg.SaveSchedule)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, 5*time.Second, cfg.AutoStartInterval)
	assert.Equal(t, 5*time.Minute, cfg.MinOffline)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, 10, cfg.NarrativeRateSeconds)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "redis")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("MIN_OFFLINE", "garbage")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("NARRATIVE_RATE_SECONDS", "-3")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	assert.Equal(t, "redis", cfg.DBDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 5*time.Minute, cfg.MinOffline)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 10, cfg.NarrativeRateSeconds)
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("SKYLOG_FLAG", "TRUE")
	assert.True(t, getEnvBool("SKYLOG_FLAG", false))
	t.Setenv("SKYLOG_FLAG", "nope")
	assert.False(t, getEnvBool("SKYLOG_FLAG", false))
}
