// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/typemorph/internal/gemini"
	"github.com/jeranaias/typemorph/internal/morph"
	"github.com/jeranaias/typemorph/internal/playground"
	"github.com/jeranaias/typemorph/internal/util"
)

// CurrentVersion is the config file format version.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete typemorph configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Gemini is the generative glyph service.
	Gemini GeminiConfig `toml:"gemini" json:"gemini"`

	// Playground holds the starting state of a session.
	Playground PlaygroundConfig `toml:"playground" json:"playground"`

	// Export controls where and how files are written.
	Export ExportConfig `toml:"export" json:"export"`

	// Cache is the local glyph cache.
	Cache CacheConfig `toml:"cache" json:"cache"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	// APIKey authenticates requests. GEMINI_API_KEY overrides it.
	APIKey string `toml:"api_key" json:"api_key"`
	// Model is the generateContent model name.
	Model string `toml:"model" json:"model"`
	// BaseURL is the API root, for proxies and tests.
	BaseURL string `toml:"base_url" json:"base_url"`
	// RequestsPerMinute throttles requests client-side (0 = unlimited).
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// PlaygroundConfig is the initial playground state.
type PlaygroundConfig struct {
	Text     string  `toml:"text" json:"text"`
	FontSize int     `toml:"font_size" json:"font_size"`
	Kerning  float64 `toml:"kerning" json:"kerning"`
	// BlendStyles are blended when no letter has been morphed yet.
	BlendStyles []string `toml:"blend_styles" json:"blend_styles"`
	// IntervalMS is how often a hovered letter re-rolls its style.
	IntervalMS int `toml:"interval_ms" json:"interval_ms"`
}

// ExportConfig configures exporters.
type ExportConfig struct {
	OutputDir       string `toml:"output_dir" json:"output_dir"`
	Format          string `toml:"format" json:"format"`
	Padding         int    `toml:"padding" json:"padding"`
	Background      string `toml:"background" json:"background"`
	PlainSnippet    bool   `toml:"plain_snippet" json:"plain_snippet"`
	OpenAfterExport bool   `toml:"open_after_export" json:"open_after_export"`
}

// CacheConfig configures the sqlite glyph cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the database file (empty = ~/.typemorph/glyphs.db).
	Path string `toml:"path" json:"path"`
	// TTLHours prunes glyphs older than this on startup (0 = keep forever).
	TTLHours int `toml:"ttl_hours" json:"ttl_hours"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Sparkles draws sparkles around the hovered letter.
	Sparkles bool `toml:"sparkles" json:"sparkles"`
	// ShowHelp shows the full key help on start.
	ShowHelp bool `toml:"show_help" json:"show_help"`
	// NoColor disables colors regardless of the terminal.
	NoColor bool `toml:"no_color" json:"no_color"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Gemini: GeminiConfig{
			Model:   gemini.DefaultModel,
			BaseURL: gemini.DefaultBaseURL,
		},
		Playground: PlaygroundConfig{
			Text:        playground.DefaultText,
			FontSize:    playground.DefaultFontSize,
			Kerning:     playground.DefaultKerning,
			BlendStyles: []string{"Inter", "Anton"},
			IntervalMS:  int(morph.DefaultInterval / time.Millisecond),
		},
		Export: ExportConfig{
			OutputDir: ".",
			Format:    "png",
			Padding:   40,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		UI: UIConfig{
			Sparkles: true,
		},
	}
}

// Interval returns the morph interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Playground.IntervalMS) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the typemorph configuration directory path.
func ConfigDir() (string, error) {
	dir, err := util.AppDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return dir, nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ensureSecurePermissions tightens a config file to 0600. It holds an API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.typemorph/config.toml, falling back to
// config.json and then to defaults. Environment overrides are applied last.
// A file that fails to parse is reported alongside the default config.
func Load() (*Config, error) {
	var loadErr error

	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
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

// LoadTOML decodes a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	_ = ensureSecurePermissions(path)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	_ = ensureSecurePermissions(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file with env overrides,
// defaults and validation applied. Keys missing from the file keep their
// default values.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadForEdit loads a file for modification: no environment overrides, so
// saving it back never persists values that only came from the
// environment. A missing file yields defaults.
func LoadForEdit(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	var err error
	if strings.HasSuffix(path, ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// ActivePath returns the file Load reads: config.toml, or config.json when
// only that exists.
func ActivePath() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, err := os.Stat(jsonPath); err == nil {
			return jsonPath, nil
		}
	}
	return tomlPath, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration atomically with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# typemorph configuration file\n")
	b.WriteString("# GEMINI_API_KEY in the environment overrides gemini.api_key\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, []byte(b.String()), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveToPath writes cfg as JSON or TOML depending on the extension.
func SaveToPath(cfg *Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return SaveJSON(cfg, path)
	}
	return SaveTOML(cfg, path)
}

// SaveJSON writes the configuration as JSON, atomically with 0600
// permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, data, 0600, 0700); err != nil {
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

var validFormats = map[string]bool{"png": true, "svg": true, "code": true, "json": true}

// Validate validates the configuration and returns ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Gemini.BaseURL != "" {
		u, err := url.Parse(c.Gemini.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "gemini.base_url",
				Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host", c.Gemini.BaseURL),
			})
		}
	}
	if c.Gemini.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "gemini.requests_per_minute",
			Message: "must not be negative",
		})
	}

	if c.Playground.FontSize < playground.MinFontSize || c.Playground.FontSize > playground.MaxFontSize {
		errs = append(errs, ValidationError{
			Field: "playground.font_size",
			Message: fmt.Sprintf("%d out of range [%d, %d]", c.Playground.FontSize,
				playground.MinFontSize, playground.MaxFontSize),
		})
	}
	if c.Playground.Kerning < playground.MinKerning || c.Playground.Kerning > playground.MaxKerning {
		errs = append(errs, ValidationError{
			Field: "playground.kerning",
			Message: fmt.Sprintf("%g out of range [%g, %g]", c.Playground.Kerning,
				playground.MinKerning, playground.MaxKerning),
		})
	}
	for _, s := range c.Playground.BlendStyles {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, ValidationError{
				Field:   "playground.blend_styles",
				Message: "style names must not be empty",
			})
			break
		}
	}
	if c.Playground.IntervalMS < 16 {
		errs = append(errs, ValidationError{
			Field:   "playground.interval_ms",
			Message: fmt.Sprintf("%d is below the 16ms minimum", c.Playground.IntervalMS),
		})
	}

	if !validFormats[strings.ToLower(c.Export.Format)] {
		errs = append(errs, ValidationError{
			Field:   "export.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: png, svg, code, json", c.Export.Format),
		})
	}
	if c.Export.Padding < 0 {
		errs = append(errs, ValidationError{Field: "export.padding", Message: "must not be negative"})
	}
	if bg := c.Export.Background; bg != "" && !isHexColor(bg) {
		errs = append(errs, ValidationError{
			Field:   "export.background",
			Message: fmt.Sprintf("invalid color '%s', want #rgb or #rrggbb", bg),
		})
	}

	if c.Cache.TTLHours < 0 {
		errs = append(errs, ValidationError{Field: "cache.ttl_hours", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func isHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") || (len(s) != 4 && len(s) != 7) {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// SetDefaults fills zero values that have no meaning as zero.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = d.Gemini.Model
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = d.Gemini.BaseURL
	}
	if c.Playground.FontSize == 0 {
		c.Playground.FontSize = d.Playground.FontSize
	}
	if len(c.Playground.BlendStyles) == 0 {
		c.Playground.BlendStyles = d.Playground.BlendStyles
	}
	if c.Playground.IntervalMS == 0 {
		c.Playground.IntervalMS = d.Playground.IntervalMS
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = d.Export.OutputDir
	}
	if c.Export.Format == "" {
		c.Export.Format = d.Export.Format
	}
	c.Export.Format = strings.ToLower(c.Export.Format)
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - GEMINI_API_KEY: overrides gemini.api_key
//   - TYPEMORPH_MODEL: overrides gemini.model
//   - TYPEMORPH_GEMINI_URL: overrides gemini.base_url
//   - TYPEMORPH_OUTPUT_DIR: overrides export.output_dir
//   - TYPEMORPH_NO_CACHE: set to "1" or "true" to disable the glyph cache
//   - NO_COLOR: any value disables colors
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("TYPEMORPH_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if u := os.Getenv("TYPEMORPH_GEMINI_URL"); u != "" {
		c.Gemini.BaseURL = u
	}
	if dir := os.Getenv("TYPEMORPH_OUTPUT_DIR"); dir != "" {
		c.Export.OutputDir = dir
	}
	if v := os.Getenv("TYPEMORPH_NO_CACHE"); v != "" {
		if v == "1" || strings.EqualFold(v, "true") {
			c.Cache.Enabled = false
		}
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.NoColor = true
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "gemini.model").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "gemini.model").
// String values are converted to the field's type.
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
	if strings.TrimSpace(key) == "" {
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
			intVal, err := strconv.ParseInt(strings.TrimSpace(strVal), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := parseBool(strVal)
			if err != nil {
				return err
			}
			field.SetBool(boolVal)
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, s := range strings.Split(strVal, ",") {
					if s = strings.TrimSpace(s); s != "" {
						items = append(items, s)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
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

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %q", s)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"gemini.api_key",
		"gemini.model",
		"gemini.base_url",
		"gemini.requests_per_minute",
		"playground.text",
		"playground.font_size",
		"playground.kerning",
		"playground.blend_styles",
		"playground.interval_ms",
		"export.output_dir",
		"export.format",
		"export.padding",
		"export.background",
		"export.plain_snippet",
		"export.open_after_export",
		"cache.enabled",
		"cache.path",
		"cache.ttl_hours",
		"ui.sparkles",
		"ui.show_help",
		"ui.no_color",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Playground.BlendStyles = append([]string(nil), c.Playground.BlendStyles...)
	return &clone
}

// String returns the config as JSON with the API key redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Gemini.APIKey != "" {
		safe.Gemini.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance, loading it on first
// access. Load errors fall back to defaults.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, _ := Load()
		if cfg == nil {
			cfg = Default()
			cfg.ApplyEnvOverrides()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
