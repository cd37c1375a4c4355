package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() *Config {
	return &Config{
		Port:      "8000",
		MediaRoot: "media",
		PageSize:  4,
		Env:       "development",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, baseConfig().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive page size", func(t *testing.T) {
		cfg := baseConfig()
		cfg.PageSize = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing media root", func(t *testing.T) {
		cfg := baseConfig()
		cfg.MediaRoot = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("weak DB password rejected in production", func(t *testing.T) {
		cfg := baseConfig()
		cfg.Env = "production"
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())

		cfg.DBPassword = "an-actually-strong-one"
		assert.NoError(t, cfg.Validate())
	})
}

func TestIsProduction(t *testing.T) {
	tests := []struct {
		env      string
		expected bool
	}{
		{"production", true},
		{"prod", true},
		{"development", false},
		{"test", false},
		{"", false},
	}
	for _, tt := range tests {
		cfg := &Config{Env: tt.env}
		assert.Equal(t, tt.expected, cfg.IsProduction(), "env=%q", tt.env)
	}
}
