package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad(t *testing.T) {
	t.Run("Reads the yaml file and fills defaults", func(t *testing.T) {
		// Given: a config file with a few fields set
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "log-level: debug\nredis:\n  host: redis\nbot:\n  think-delay: 250ms\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: loading it
		conf := MustLoad(path)

		// Then: file values win and the rest come from defaults
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "9091", conf.SocketPort)
		assert.Equal(t, "redis:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Redis.GameTTL)
		assert.Equal(t, 250*time.Millisecond, conf.Bot.ThinkDelay)
		assert.InDelta(t, 0.6, conf.Bot.MediumSearchRate, 1e-9)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("http-port: \"8000\"\n"), 0o600))
		t.Setenv("HTTP_PORT", "8080")

		conf := MustLoad(path)

		assert.Equal(t, "8080", conf.HTTPPort)
	})

	t.Run("Missing file panics", func(t *testing.T) {
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yml")) })
	})
}

func TestMustLoadEnv(t *testing.T) {
	t.Setenv("BOT_MEDIUM_SEARCH_RATE", "0.25")

	conf := MustLoadEnv()

	assert.InDelta(t, 0.25, conf.Bot.MediumSearchRate, 1e-9)
	assert.Equal(t, 700*time.Millisecond, conf.Bot.ThinkDelay)
}
