// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
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
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/profchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete profchat configuration.
type Config struct {
	Backend BackendConfig `toml:"backend" json:"backend" yaml:"backend"`
	Persona PersonaConfig `toml:"persona" json:"persona" yaml:"persona"`
	UI      UIConfig      `toml:"ui" json:"ui" yaml:"ui"`
	Log     LogConfig     `toml:"log" json:"log" yaml:"log"`
}

// BackendConfig contains service connection settings.
type BackendConfig struct {
	// Host is the service base URL
	Host string `toml:"host" json:"host" yaml:"host"`
	// RequestTimeoutSecs bounds directory and ingestion requests
	RequestTimeoutSecs int `toml:"request_timeout_secs" json:"request_timeout_secs" yaml:"request_timeout_secs"`
	// RateLimitRPS caps outgoing requests per second
	RateLimitRPS float64 `toml:"rate_limit_rps" json:"rate_limit_rps" yaml:"rate_limit_rps"`
}

// RequestTimeout returns RequestTimeoutSecs as a duration.
func (b BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutSecs) * time.Second
}

// PersonaConfig contains persona and ingestion settings.
type PersonaConfig struct {
	// Greeting is the opening assistant turn; %s is replaced by the name
	Greeting string `toml:"greeting" json:"greeting" yaml:"greeting"`
	// DefaultCollege pre-fills the ingestion form
	DefaultCollege string `toml:"default_college" json:"default_college" yaml:"default_college"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// DirectoryPosition places the persona bar: "top" or "bottom"
	DirectoryPosition string `toml:"directory_position" json:"directory_position" yaml:"directory_position"`
	// ShowIngestForm shows the add-professor form when no persona is selected
	ShowIngestForm bool `toml:"show_ingest_form" json:"show_ingest_form" yaml:"show_ingest_form"`
	// WordWrap is the markdown wrap width (0 = terminal width)
	WordWrap int `toml:"word_wrap" json:"word_wrap" yaml:"word_wrap"`
	// GlamourStyle is a glamour style name: "auto", "dark", "light", "notty"
	GlamourStyle string `toml:"glamour_style" json:"glamour_style" yaml:"glamour_style"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is a zerolog level name
	Level string `toml:"level" json:"level" yaml:"level"`
	// File receives logs; empty means ~/.profchat/profchat.log for the TUI
	File string `toml:"file" json:"file" yaml:"file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

const (
	DefaultHost           = "http://127.0.0.1:5000"
	DefaultGreeting       = "How can I help you learn about %s?"
	DefaultCollege        = "Stony Brook University"
	DefaultRequestTimeout = 30
	DefaultRateLimitRPS   = 5
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Host:               DefaultHost,
			RequestTimeoutSecs: DefaultRequestTimeout,
			RateLimitRPS:       DefaultRateLimitRPS,
		},
		Persona: PersonaConfig{
			Greeting:       DefaultGreeting,
			DefaultCollege: DefaultCollege,
		},
		UI: UIConfig{
			DirectoryPosition: "top",
			ShowIngestForm:    true,
			WordWrap:          0,
			GlamourStyle:      "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the profchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".profchat"), nil
}

// ConfigPaths returns candidate config files in load order.
func ConfigPaths() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.json"),
	}, nil
}

// ActivePath returns the first config file that exists, or the TOML path
// when none does.
func ActivePath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return paths[0], nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the first config file found, falling back
// to defaults. Environment overrides are applied last. A file that fails to
// parse is reported alongside the default configuration.
func Load() (*Config, error) {
	paths, err := ConfigPaths()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}

	var loadErr error
	for _, p := range paths {
		if _, statErr := os.Stat(p); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(p)
		if err == nil {
			return cfg, nil
		}
		loadErr = err
		break
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file with full
// validation. The format is chosen by extension; anything else is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ReadFile decodes path over the defaults without environment overrides,
// for editing the file itself.
func ReadFile(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML: %w", err)
		}
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to path in the format implied by its extension.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		buf.Write(data)
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	default:
		fmt.Fprintln(&buf, "# profchat configuration file")
		fmt.Fprintln(&buf)
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600, 0700); err != nil {
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
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true,
	"error": true, "fatal": true, "panic": true, "disabled": true,
}

var validGlamourStyles = map[string]bool{
	"auto": true, "dark": true, "light": true, "notty": true,
	"ascii": true, "dracula": true, "pink": true, "tokyo-night": true,
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Backend.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.host",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Backend.Host),
		})
	}
	if c.Backend.RequestTimeoutSecs < 1 || c.Backend.RequestTimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "backend.request_timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.Backend.RequestTimeoutSecs),
		})
	}
	if c.Backend.RateLimitRPS <= 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.rate_limit_rps",
			Message: "must be positive",
		})
	}

	if strings.Count(c.Persona.Greeting, "%") > strings.Count(c.Persona.Greeting, "%s") {
		errs = append(errs, ValidationError{
			Field:   "persona.greeting",
			Message: "only %s is allowed as a placeholder",
		})
	}
	if strings.Count(c.Persona.Greeting, "%s") > 1 {
		errs = append(errs, ValidationError{
			Field:   "persona.greeting",
			Message: "at most one %s placeholder is allowed",
		})
	}

	switch c.UI.DirectoryPosition {
	case "top", "bottom":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.directory_position",
			Message: fmt.Sprintf("invalid position '%s', must be one of: top, bottom", c.UI.DirectoryPosition),
		})
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{
			Field:   "ui.word_wrap",
			Message: "must not be negative",
		})
	}
	if !validGlamourStyles[c.UI.GlamourStyle] {
		errs = append(errs, ValidationError{
			Field:   "ui.glamour_style",
			Message: fmt.Sprintf("unknown style '%s'", c.UI.GlamourStyle),
		})
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level '%s'", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values that would otherwise fail validation.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Backend.Host == "" {
		c.Backend.Host = d.Backend.Host
	}
	c.Backend.Host = strings.TrimRight(c.Backend.Host, "/")
	if c.Backend.RequestTimeoutSecs == 0 {
		c.Backend.RequestTimeoutSecs = d.Backend.RequestTimeoutSecs
	}
	if c.Backend.RateLimitRPS == 0 {
		c.Backend.RateLimitRPS = d.Backend.RateLimitRPS
	}
	if c.Persona.Greeting == "" {
		c.Persona.Greeting = d.Persona.Greeting
	}
	if c.Persona.DefaultCollege == "" {
		c.Persona.DefaultCollege = d.Persona.DefaultCollege
	}
	if c.UI.DirectoryPosition == "" {
		c.UI.DirectoryPosition = d.UI.DirectoryPosition
	}
	c.UI.DirectoryPosition = strings.ToLower(c.UI.DirectoryPosition)
	if c.UI.GlamourStyle == "" {
		c.UI.GlamourStyle = d.UI.GlamourStyle
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - PROFCHAT_HOST: overrides backend.host
//   - REACT_API_URL: legacy alias for PROFCHAT_HOST (PROFCHAT_HOST wins)
//   - PROFCHAT_COLLEGE: overrides persona.default_college
//   - PROFCHAT_LOG_LEVEL: overrides log.level
//   - PROFCHAT_LOG_FILE: overrides log.file
func (c *Config) ApplyEnvOverrides() {
	if host := os.Getenv("REACT_API_URL"); host != "" {
		c.Backend.Host = host
	}
	if host := os.Getenv("PROFCHAT_HOST"); host != "" {
		c.Backend.Host = host
	}
	if college := os.Getenv("PROFCHAT_COLLEGE"); college != "" {
		c.Persona.DefaultCollege = college
	}
	if level := os.Getenv("PROFCHAT_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if file := os.Getenv("PROFCHAT_LOG_FILE"); file != "" {
		c.Log.File = file
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g. "backend.host").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
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
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
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

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %s", strVal)
			}
			field.SetInt(n)
			return nil
		case reflect.Float64:
			f, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %s", strVal)
			}
			field.SetFloat(f)
			return nil
		case reflect.Bool:
			b, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %s", strVal)
			}
			field.SetBool(b)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.Type().ConvertibleTo(field.Type()) {
		return fmt.Errorf("cannot convert %T to %s", value, field.Type())
	}
	field.Set(val.Convert(field.Type()))
	return nil
}

// GetAllKeys returns every settable key in dot notation.
func GetAllKeys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		prefix := section.Tag.Get("toml")
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, prefix+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// String returns a JSON representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
