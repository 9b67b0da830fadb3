// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{"GEMINI_API_KEY", "TYPEMORPH_MODEL", "TYPEMORPH_GEMINI_URL", "TYPEMORPH_OUTPUT_DIR", "TYPEMORPH_NO_CACHE"} {
		t.Setenv(k, "")
	}
	t.Setenv("NO_COLOR", "")
	os.Unsetenv("NO_COLOR")
	return home
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Type Morph", cfg.Playground.Text)
	assert.Equal(t, 120, cfg.Playground.FontSize)
	assert.Equal(t, 150*time.Millisecond, cfg.Interval())
	assert.Equal(t, "gemini-3-flash-preview", cfg.Gemini.Model)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 40, cfg.Export.Padding)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"font size too small", func(c *Config) { c.Playground.FontSize = 5 }, "playground.font_size"},
		{"kerning too large", func(c *Config) { c.Playground.Kerning = 2 }, "playground.kerning"},
		{"bad base url", func(c *Config) { c.Gemini.BaseURL = "ftp://x" }, "gemini.base_url"},
		{"negative rpm", func(c *Config) { c.Gemini.RequestsPerMinute = -1 }, "gemini.requests_per_minute"},
		{"unknown format", func(c *Config) { c.Export.Format = "gif" }, "export.format"},
		{"bad background", func(c *Config) { c.Export.Background = "white" }, "export.background"},
		{"empty blend style", func(c *Config) { c.Playground.BlendStyles = []string{"Inter", " "} }, "playground.blend_styles"},
		{"interval too short", func(c *Config) { c.Playground.IntervalMS = 1 }, "playground.interval_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestConfig_SaveAndLoadTOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")

	cfg := Default()
	cfg.Gemini.APIKey = "secret"
	cfg.Playground.Text = "Hello"
	cfg.Playground.BlendStyles = []string{"Bebas Neue", "Handjet"}
	cfg.Export.Format = "svg"
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[playground]\nfont_size = 200\n"), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Playground.FontSize)
	assert.Equal(t, "Type Morph", cfg.Playground.Text)
	assert.True(t, cfg.Cache.Enabled)

	// Permissions are tightened on load.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfig_LoadJSON(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"export":{"format":"JSON","padding":10}}`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Export.Format)
	assert.Equal(t, 10, cfg.Export.Padding)
}

func TestConfig_LoadInvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[playground]\nfont_size = 9000\n"), 0600))

	_, err := LoadFromPath(path)
	var verrs ValidateErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Playground, cfg.Playground)

	// A broken file yields defaults plus the error.
	dir := filepath.Join(home, ".typemorph")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [toml"), 0600))
	cfg, err = Load()
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 120, cfg.Playground.FontSize)
}

func TestConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("TYPEMORPH_MODEL", "gemini-x")
	t.Setenv("TYPEMORPH_GEMINI_URL", "http://localhost:9999")
	t.Setenv("TYPEMORPH_OUTPUT_DIR", "/tmp/out")
	t.Setenv("TYPEMORPH_NO_CACHE", "true")
	t.Setenv("NO_COLOR", "")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-x", cfg.Gemini.Model)
	assert.Equal(t, "http://localhost:9999", cfg.Gemini.BaseURL)
	assert.Equal(t, "/tmp/out", cfg.Export.OutputDir)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.UI.NoColor)
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("playground.font_size", "144"))
	require.NoError(t, cfg.Set("playground.kerning", "0.25"))
	require.NoError(t, cfg.Set("cache.enabled", "no"))
	require.NoError(t, cfg.Set("playground.blend_styles", "Anton, Handjet ,"))
	require.NoError(t, cfg.Set("gemini.api_key", "k"))

	assert.Equal(t, 144, cfg.Playground.FontSize)
	assert.Equal(t, 0.25, cfg.Playground.Kerning)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"Anton", "Handjet"}, cfg.Playground.BlendStyles)

	v, err := cfg.Get("gemini.api_key")
	require.NoError(t, err)
	assert.Equal(t, "k", v)

	assert.Error(t, cfg.Set("playground.font_size", "big"))
	assert.Error(t, cfg.Set("cache.enabled", "maybe"))
	assert.Error(t, cfg.Set("nope.key", "1"))
	assert.Error(t, cfg.Set("gemini", "1"))
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestConfig_AllKeysResolve(t *testing.T) {
	cfg := Default()
	for _, k := range GetAllKeys() {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestConfig_StringRedactsKey(t *testing.T) {
	cfg := Default()
	cfg.Gemini.APIKey = "super-secret"
	assert.NotContains(t, cfg.String(), "super-secret")
	assert.Contains(t, cfg.String(), "[REDACTED]")
	assert.Equal(t, "super-secret", cfg.Gemini.APIKey)
}

func TestConfig_CloneIsDeep(t *testing.T) {
	cfg := Default()
	c := cfg.Clone()
	c.Playground.BlendStyles[0] = "Changed"
	assert.Equal(t, "Inter", cfg.Playground.BlendStyles[0])
}

// =============================================================================
// GLOBAL
// =============================================================================

func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			c := Default()
			c.Version = "concurrent-test"
			SetGlobal(c)
		}()
		go func() {
			defer wg.Done()
			assert.NotNil(t, Global())
		}()
		go func() {
			defer wg.Done()
			_ = ReloadGlobal()
		}()
	}
	wg.Wait()
}

func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	defer ResetGlobalForTesting()

	_ = Global()
	custom := Default()
	custom.Version = "custom-version"
	SetGlobal(custom)
	assert.Equal(t, "custom-version", Global().Version)
}

// =============================================================================
// WATCH
// =============================================================================

func TestWatch_ReloadsOnSave(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	got := make(chan *Config, 4)
	w, err := Watch(path, 30*time.Millisecond, func(c *Config, err error) {
		if err == nil {
			got <- c
		}
	})
	require.NoError(t, err)
	defer w.Close()

	cfg := Default()
	cfg.Playground.FontSize = 222
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case c := <-got:
		assert.Equal(t, 222, c.Playground.FontSize)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after save")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	calls := make(chan struct{}, 4)
	w, err := Watch(path, 20*time.Millisecond, func(*Config, error) { calls <- struct{}{} })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0600))
	select {
	case <-calls:
		t.Fatal("reloaded for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestLoadForEdit_IgnoresEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("GEMINI_API_KEY", "from-env")
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadForEdit(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Gemini.APIKey)

	cfg.Playground.Text = "Edited"
	require.NoError(t, SaveToPath(cfg, path))

	back, err := LoadForEdit(path)
	require.NoError(t, err)
	assert.Equal(t, "Edited", back.Playground.Text)
	assert.Empty(t, back.Gemini.APIKey)
}

func TestActivePath_PrefersTOML(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".typemorph")

	p, err := ActivePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), p)

	require.NoError(t, SaveJSON(Default(), filepath.Join(dir, "config.json")))
	p, err = ActivePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.json"), p)
}
