// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/jeranaias/perfburger-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete perfburger configuration.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	Chat    ChatConfig    `toml:"chat" json:"chat"`
	Auth    AuthConfig    `toml:"auth" json:"auth"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// APIConfig locates the PerfBurger backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://localhost:8000
	BaseURL string `toml:"base_url" json:"base_url" env:"PERFBURGER_API_URL, overwrite"`
	// TimeoutSecs bounds each request. 0 leaves it to the transport.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" env:"PERFBURGER_API_TIMEOUT, overwrite"`
	// RequestsPerSecond throttles outgoing calls. 0 disables the limiter.
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second" env:"PERFBURGER_API_RPS, overwrite"`
	// Burst is the limiter bucket size.
	Burst int `toml:"burst" json:"burst" env:"PERFBURGER_API_BURST, overwrite"`
}

// StorageConfig selects the credential persistence backend.
type StorageConfig struct {
	// Backend is one of "file", "sqlite", "memory".
	Backend string `toml:"backend" json:"backend" env:"PERFBURGER_STORAGE, overwrite"`
	// Path overrides the backend's default location under the config dir.
	Path string `toml:"path" json:"path" env:"PERFBURGER_STORAGE_PATH, overwrite"`
}

// ChatConfig holds chat engine settings.
type ChatConfig struct {
	// WelcomeDelayMS is how long after a clear the welcome message reappears.
	WelcomeDelayMS int `toml:"welcome_delay_ms" json:"welcome_delay_ms" env:"PERFBURGER_WELCOME_DELAY_MS, overwrite"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// AllowGuest enables the one-key demo account.
	AllowGuest bool `toml:"allow_guest" json:"allow_guest" env:"PERFBURGER_ALLOW_GUEST, overwrite"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme" json:"theme" env:"PERFBURGER_THEME, overwrite"`
	// WordWrap is the markdown wrap width for the plain REPL. 0 means 80.
	WordWrap int `toml:"word_wrap" json:"word_wrap" env:"PERFBURGER_WORD_WRAP, overwrite"`
}

// LogConfig controls the structured log sink.
type LogConfig struct {
	Level  string `toml:"level" json:"level" env:"PERFBURGER_LOG_LEVEL, overwrite"`
	Path   string `toml:"path" json:"path" env:"PERFBURGER_LOG_PATH, overwrite"`
	Pretty bool   `toml:"pretty" json:"pretty" env:"PERFBURGER_LOG_PRETTY, overwrite"`
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a configuration with all built-in defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8000",
			TimeoutSecs:       0,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
		},
		Chat: ChatConfig{
			WelcomeDelayMS: 500,
		},
		UI: UIConfig{
			Theme:    "auto",
			WordWrap: 80,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults fills empty fields left by a partial config file.
func (c *Config) SetDefaults() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.RequestsPerSecond > 0 && c.API.Burst == 0 {
		c.API.Burst = d.API.Burst
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = d.UI.WordWrap
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
}

// ResolvePaths fills storage and log paths relative to dir when unset.
func (c *Config) ResolvePaths(dir string) {
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case BackendSQLite:
			c.Storage.Path = filepath.Join(dir, "perfburger.db")
		case BackendFile:
			c.Storage.Path = filepath.Join(dir, "credentials.json")
		}
	}
	if c.Log.Path == "" {
		c.Log.Path = filepath.Join(dir, "perfburger.log")
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// WelcomeDelay returns the welcome re-emit delay as a duration.
func (c *Config) WelcomeDelay() time.Duration {
	return time.Duration(c.Chat.WelcomeDelayMS) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the perfburger configuration directory.
// PERFBURGER_HOME overrides ~/.perfburger.
func ConfigDir() (string, error) {
	if dir := os.Getenv("PERFBURGER_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".perfburger"), nil
}

// ConfigPath returns the path to the TOML config file in dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, "config.toml")
}

// ensureSecurePermissions tightens an existing config file to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config directory.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom loads defaults, then dir/config.toml if present, then .env files,
// then PERFBURGER_* environment variables. The result is validated and its
// paths are resolved relative to dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := Default()

	path := ConfigPath(dir)
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
	}

	if err := loadDotEnv(dir); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvOverrides(context.Background(), nil); err != nil {
		return nil, err
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.ResolvePaths(dir)
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// loadDotEnv loads ./.env and dir/.env when they exist. Variables already
// present in the environment win.
func loadDotEnv(dir string) error {
	var files []string
	for _, f := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(f); err == nil {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to dir/config.toml.
func Save(cfg *Config, dir string) error {
	return SaveTOML(cfg, ConfigPath(dir))
}

// SaveTOML writes the configuration to a TOML file.
// SECURITY: 0600 permissions. RELIABILITY: atomic write with fsync.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# perfburger configuration file\n")
	buf.WriteString("# Environment variables (PERFBURGER_*) override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validBackends = map[string]bool{BackendFile: true, BackendSQLite: true, BackendMemory: true}
	validThemes   = map[string]bool{"auto": true, "dark": true, "light": true}
	validLevels   = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true, "off": true, "disabled": true}
)

// Validate checks every field and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{"api.base_url", "must be an absolute http(s) URL"})
	}
	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{"api.timeout_secs", "must not be negative"})
	}
	if c.API.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{"api.requests_per_second", "must not be negative"})
	}
	if c.API.RequestsPerSecond > 0 && c.API.Burst < 1 {
		errs = append(errs, ValidationError{"api.burst", "must be at least 1 when throttling"})
	}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, ValidationError{"storage.backend", "must be file, sqlite or memory"})
	}
	if c.Chat.WelcomeDelayMS < 0 || c.Chat.WelcomeDelayMS > 60000 {
		errs = append(errs, ValidationError{"chat.welcome_delay_ms", "must be between 0 and 60000"})
	}
	if !validThemes[c.UI.Theme] {
		errs = append(errs, ValidationError{"ui.theme", "must be auto, dark or light"})
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{"ui.word_wrap", "must not be negative"})
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{"log.level", "unknown level " + strconv.Quote(c.Log.Level)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides overlays PERFBURGER_* variables onto c. Only variables
// that are set replace file values. A nil lookuper reads the process
// environment.
//
// Supported environment variables:
//   - PERFBURGER_API_URL, PERFBURGER_API_TIMEOUT, PERFBURGER_API_RPS, PERFBURGER_API_BURST
//   - PERFBURGER_STORAGE, PERFBURGER_STORAGE_PATH
//   - PERFBURGER_WELCOME_DELAY_MS
//   - PERFBURGER_ALLOW_GUEST
//   - PERFBURGER_THEME, PERFBURGER_WORD_WRAP
//   - PERFBURGER_LOG_LEVEL, PERFBURGER_LOG_PATH, PERFBURGER_LOG_PRETTY
func (c *Config) ApplyEnvOverrides(ctx context.Context, lookuper envconfig.Lookuper) error {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   c,
		Lookuper: lookuper,
	}); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookupField(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "chat.welcome_delay_ms").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookupField(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookupField(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section, not a value", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts snake_case or kebab-case to the Go field name.
// "base_url" becomes "BaseUrl", which matches BaseURL case-insensitively.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue assigns value to field, converting from string when needed.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %v", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"api.base_url",
		"api.timeout_secs",
		"api.requests_per_second",
		"api.burst",
		"storage.backend",
		"storage.path",
		"chat.welcome_delay_ms",
		"auth.allow_guest",
		"ui.theme",
		"ui.word_wrap",
		"log.level",
		"log.path",
		"log.pretty",
	}
}

// Clone returns a copy of the configuration. All fields are values.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
