// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.WelcomeDelay() != 500*time.Millisecond {
		t.Errorf("WelcomeDelay = %v, want 500ms", cfg.WelcomeDelay())
	}
	if cfg.Timeout() != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.Timeout())
	}
	if cfg.Auth.AllowGuest {
		t.Error("guest access should be off by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"valid", func(c *Config) {}, "", false},
		{"relative url", func(c *Config) { c.API.BaseURL = "localhost:8000" }, "api.base_url", true},
		{"ftp url", func(c *Config) { c.API.BaseURL = "ftp://host" }, "api.base_url", true},
		{"negative timeout", func(c *Config) { c.API.TimeoutSecs = -1 }, "api.timeout_secs", true},
		{"zero burst with limiter", func(c *Config) { c.API.Burst = 0 }, "api.burst", true},
		{"no limiter no burst", func(c *Config) { c.API.RequestsPerSecond = 0; c.API.Burst = 0 }, "", false},
		{"bad backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend", true},
		{"huge welcome delay", func(c *Config) { c.Chat.WelcomeDelayMS = 120000 }, "chat.welcome_delay_ms", true},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme", true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidateErrors, got %v", err)
			}
			if verrs[0].Field != tc.field {
				t.Errorf("field = %q, want %q", verrs[0].Field, tc.field)
			}
		})
	}
}

func TestLoadFrom_TOMLAndResolvePaths(t *testing.T) {
	dir := t.TempDir()
	content := `
[api]
base_url = "https://api.perfburger.test/"
timeout_secs = 15

[storage]
backend = "sqlite"

[chat]
welcome_delay_ms = 250
`
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte(content), 0644))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://api.perfburger.test", cfg.API.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 15*time.Second, cfg.Timeout())
	assert.Equal(t, 250*time.Millisecond, cfg.WelcomeDelay())
	assert.Equal(t, filepath.Join(dir, "perfburger.db"), cfg.Storage.Path)
	assert.Equal(t, filepath.Join(dir, "perfburger.log"), cfg.Log.Path)
	// Unset sections keep defaults.
	assert.Equal(t, "auto", cfg.UI.Theme)

	info, err := os.Stat(ConfigPath(dir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "permissions tightened on load")
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte("[storage]\nbackend = \"redis\"\n"), 0600))

	_, err := LoadFrom(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.backend")
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	cfg.Auth.AllowGuest = true
	lookuper := envconfig.MapLookuper(map[string]string{
		"PERFBURGER_API_URL":          "https://env.example",
		"PERFBURGER_STORAGE":          "memory",
		"PERFBURGER_ALLOW_GUEST":      "false",
		"PERFBURGER_WELCOME_DELAY_MS": "0",
	})

	require.NoError(t, cfg.ApplyEnvOverrides(context.Background(), lookuper))

	assert.Equal(t, "https://env.example", cfg.API.BaseURL)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.False(t, cfg.Auth.AllowGuest)
	assert.Equal(t, 0, cfg.Chat.WelcomeDelayMS)
	// Unset variables leave file values alone.
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, 5.0, cfg.API.RequestsPerSecond)
}

func TestApplyEnvOverrides_BadValue(t *testing.T) {
	cfg := Default()
	lookuper := envconfig.MapLookuper(map[string]string{
		"PERFBURGER_API_TIMEOUT": "soon",
	})
	assert.Error(t, cfg.ApplyEnvOverrides(context.Background(), lookuper))
}

func TestLoadFrom_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PERFBURGER_THEME=light\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("PERFBURGER_THEME") })

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.API.BaseURL = "https://saved.example"
	cfg.Auth.AllowGuest = true

	require.NoError(t, Save(cfg, dir))

	info, err := os.Stat(ConfigPath(dir))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := Default()
	require.NoError(t, LoadTOML(loaded, ConfigPath(dir)))
	assert.Equal(t, "https://saved.example", loaded.API.BaseURL)
	assert.True(t, loaded.Auth.AllowGuest)
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("api.base_url", "https://set.example"))
	v, err := cfg.Get("api.base_url")
	require.NoError(t, err)
	assert.Equal(t, "https://set.example", v)

	require.NoError(t, cfg.Set("chat.welcome_delay_ms", "750"))
	assert.Equal(t, 750, cfg.Chat.WelcomeDelayMS)

	require.NoError(t, cfg.Set("auth.allow_guest", "true"))
	assert.True(t, cfg.Auth.AllowGuest)

	assert.Error(t, cfg.Set("auth.allow_guest", "maybe"))
	assert.Error(t, cfg.Set("nope.key", "x"))
	_, err = cfg.Get("api")
	assert.Error(t, err, "sections are not values")

	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		assert.NoError(t, err, "key %s", key)
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.API.BaseURL = "https://other.example"
	assert.NotEqual(t, cfg.API.BaseURL, clone.API.BaseURL)
}
