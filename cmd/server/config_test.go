package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
}

func TestConfig_EnvOverridesDefaults(t *testing.T) {
	cfg := NewConfig()
	cfg.LoadEnv(func(key string) string {
		switch key {
		case "LISTEN_ADDRESS":
			return "0.0.0.0:9000"
		case "CORS_ORIGINS":
			return "http://a.example, http://b.example"
		}
		return ""
	})

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins())
}

func TestConfig_EmptyEnvKeepsExisting(t *testing.T) {
	cfg := NewConfig()
	cfg.LoadEnv(func(string) string { return "" })
	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
}

func TestConfig_FlagsWinOverEnv(t *testing.T) {
	cfg := NewConfig()
	cfg.LoadEnv(func(key string) string {
		if key == "LISTEN_ADDRESS" {
			return "0.0.0.0:9000"
		}
		return ""
	})
	require.NoError(t, cfg.ParseFlags([]string{"--address", "127.0.0.1:7777"}))

	assert.Equal(t, "127.0.0.1:7777", cfg.ListenAddr)
}
