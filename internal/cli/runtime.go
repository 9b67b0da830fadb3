// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Builds the requester, glyph cache and session from config.

package cli

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jeranaias/typemorph/internal/config"
	"github.com/jeranaias/typemorph/internal/export"
	"github.com/jeranaias/typemorph/internal/fontmap"
	"github.com/jeranaias/typemorph/internal/logging"
	"github.com/jeranaias/typemorph/internal/playground"
	"github.com/jeranaias/typemorph/internal/storage"
	"github.com/jeranaias/typemorph/internal/util"
)

// Runtime is everything a command or the TUI needs, wired from one config.
type Runtime struct {
	Config    *config.Config
	Logger    *slog.Logger
	Requester *fontmap.Requester

	// Cache is nil when caching is disabled or the database could not be
	// opened.
	Cache   *storage.GlyphCache
	Session *playground.Session
}

// RuntimeOptions adjusts how a Runtime is wired.
type RuntimeOptions struct {
	Logger *slog.Logger

	// Rand seeds the session's style picks; nil means a fresh generator.
	Rand *rand.Rand
}

// OpenRuntime validates cfg and wires a Runtime. A cache that fails to open
// is logged and skipped.
func OpenRuntime(ctx context.Context, cfg *config.Config, ro RuntimeOptions) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := logging.OrDefault(ro.Logger)

	rt := &Runtime{Config: cfg, Logger: logger}
	rt.Requester = fontmap.New(fontmap.Options{
		APIKey:            cfg.Gemini.APIKey,
		Model:             cfg.Gemini.Model,
		BaseURL:           cfg.Gemini.BaseURL,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		Logger:            logger,
	})

	if cfg.Cache.Enabled {
		cache, err := OpenCache(cfg)
		if err != nil {
			logger.Warn("glyph cache unavailable", "error", err)
		} else {
			rt.Cache = cache
			if cfg.Cache.TTLHours > 0 {
				ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
				if n, err := cache.Prune(ctx, ttl); err != nil {
					logger.Warn("glyph cache prune failed", "error", err)
				} else if n > 0 {
					logger.Info("pruned stale glyphs", "removed", n)
				}
			}
		}
	}

	opts := playground.Options{
		Requester:     rt.Requester,
		DefaultStyles: cfg.Playground.BlendStyles,
		Rand:          ro.Rand,
		Logger:        logger,
	}
	if rt.Cache != nil {
		opts.Cache = rt.Cache
	}
	rt.Session = playground.NewSession(opts)
	if cfg.Playground.Text != "" {
		rt.Session.SetText(cfg.Playground.Text)
	}
	rt.Session.SetFontSize(cfg.Playground.FontSize)
	rt.Session.SetKerning(cfg.Playground.Kerning)
	return rt, nil
}

// Close releases the glyph cache.
func (rt *Runtime) Close() error {
	if rt == nil || rt.Cache == nil {
		return nil
	}
	return rt.Cache.Close()
}

// ExportOptions converts the export section of the config.
func (rt *Runtime) ExportOptions() *export.Options {
	return ExportOptionsFromConfig(rt.Config)
}

// OpenCache opens the glyph cache at the configured path.
func OpenCache(cfg *config.Config) (*storage.GlyphCache, error) {
	sc := storage.DefaultConfig()
	if cfg.Cache.Path != "" {
		sc.DatabasePath = util.ExpandHome(cfg.Cache.Path)
	}
	return storage.Open(sc)
}

// ExportOptionsFromConfig converts the export section of cfg.
func ExportOptionsFromConfig(cfg *config.Config) *export.Options {
	if cfg == nil {
		return export.DefaultOptions()
	}
	return export.OptionsFromConfig(cfg.Export)
}
