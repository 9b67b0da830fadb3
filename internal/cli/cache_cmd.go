// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cache_cmd.go - The cache command.
//
// Command: cache [subcommand]
// Short:   Inspect and maintain the glyph cache
//
// Subcommands:
//   stats (default)          Show counts, size, schema version and style sets
//   show --styles A,B        Print the glyphs cached for a style set (--out FILE saves them)
//   clear [--yes]            Delete every cached glyph
//   prune [--older-than D]   Delete glyphs older than D (default cache.ttl_hours, or 72h)
//
// Cache Location:
//   ~/.typemorph/glyphs.db   (cache.path)

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jeranaias/typemorph/internal/config"
	"github.com/jeranaias/typemorph/internal/storage"
	"github.com/jeranaias/typemorph/internal/util"
)

var cacheSubcommands = []string{"stats", "show", "clear", "prune"}

// defaultPruneAge applies when neither --older-than nor cache.ttl_hours is set.
const defaultPruneAge = 72 * time.Hour

// HandleCache handles "typemorph cache".
func HandleCache(ctx context.Context, args Args) error {
	p := NewArgParser(args.Raw)
	w := args.out()
	sub := p.Subcommand()
	if sub == "" {
		sub = "stats"
	}

	err := OutputJSON(w, args.JSON, "cache "+sub, func() (interface{}, error) {
		cfg, err := LoadConfig(args)
		if err != nil {
			return nil, err
		}

		switch sub {
		case "stats":
			if !cfg.Cache.Enabled {
				if !args.JSON {
					fmt.Fprintln(w, RenderLabel("Glyph cache")+RenderStatus("warn")+" disabled (cache.enabled = false)")
				}
				return CacheStatsData{Enabled: false}, nil
			}
			cache, err := openCacheOrFail(cfg)
			if err != nil {
				return nil, err
			}
			defer cache.Close()
			stats, err := cache.Stats(ctx)
			if err != nil {
				return nil, NewCommandError("cache stats", "read", "could not read the glyph cache", err)
			}
			version, err := cache.SchemaVersion(ctx)
			if err != nil {
				return nil, NewCommandError("cache stats", "read", "could not read the schema version", err)
			}
			if !args.JSON {
				printCacheStats(w, stats, version, time.Now())
			}
			return CacheStatsData{Enabled: true, SchemaVersion: version, Stats: stats}, nil

		case "show":
			styles := p.FlagList("styles")
			if len(styles) == 0 {
				return nil, ErrMissingArgument("--styles", "typemorph cache show --styles Inter,Anton")
			}
			cache, err := openCacheOrFail(cfg)
			if err != nil {
				return nil, err
			}
			defer cache.Close()
			key := storage.StyleKey(styles)
			fm, err := cache.LookupAll(ctx, key)
			if err != nil {
				return nil, NewCommandError("cache show", "read", "could not read the glyph cache", err)
			}
			data := CacheShowData{StyleKey: key, Glyphs: fm.Len()}
			if out := p.FlagAny("out", "o"); out != "" {
				data.Path = util.ExpandHome(out)
				if err := fm.Save(data.Path); err != nil {
					return nil, NewCommandError("cache show", "write", "could not save "+out, err)
				}
				if !args.JSON && !args.Quiet {
					fmt.Fprintf(w, "%s Saved %d glyphs to %s\n", RenderStatus("ok"), fm.Len(), data.Path)
				}
				return data, nil
			}
			if args.JSON {
				data.FontMap = fm
				return data, nil
			}
			return data, fm.Encode(w)

		case "clear":
			cache, err := openCacheOrFail(cfg)
			if err != nil {
				return nil, err
			}
			defer cache.Close()
			if err := RequireConfirmation(args, p.BoolFlag("yes") || p.BoolFlag("y"),
				"delete every cached glyph", "Cache: "+cache.Path()); err != nil {
				return nil, err
			}
			n, err := cache.Clear(ctx)
			if err != nil {
				return nil, NewCommandError("cache clear", "delete", "could not clear the glyph cache", err)
			}
			if !args.JSON && !args.Quiet {
				fmt.Fprintf(w, "%s Removed %d glyphs\n", RenderStatus("ok"), n)
			}
			return CacheRemovedData{Removed: n}, nil

		case "prune":
			age := defaultPruneAge
			if cfg.Cache.TTLHours > 0 {
				age = time.Duration(cfg.Cache.TTLHours) * time.Hour
			}
			if s := p.Flag("older-than"); s != "" {
				d, err := time.ParseDuration(s)
				if err != nil || d <= 0 {
					return nil, NewValidationErrorWithExample("older-than", s, "not a positive duration", "--older-than 168h")
				}
				age = d
			}
			cache, err := openCacheOrFail(cfg)
			if err != nil {
				return nil, err
			}
			defer cache.Close()
			n, err := cache.Prune(ctx, age)
			if err != nil {
				return nil, NewCommandError("cache prune", "delete", "could not prune the glyph cache", err)
			}
			if !args.JSON && !args.Quiet {
				fmt.Fprintf(w, "%s Removed %d glyphs older than %s\n", RenderStatus("ok"), n, formatDurationShort(age))
			}
			return CacheRemovedData{Removed: n}, nil
		}
		return nil, ErrUnknownSubcommand("cache", sub, cacheSubcommands)
	})
	if errors.Is(err, ErrNotConfirmed) {
		fmt.Fprintln(args.errOut(), "Cancelled.")
		return nil
	}
	return err
}

func openCacheOrFail(cfg *config.Config) (*storage.GlyphCache, error) {
	cache, err := OpenCache(cfg)
	if err != nil {
		return nil, NewCommandError("cache", "open", "could not open the glyph cache", err)
	}
	return cache, nil
}

func printCacheStats(w io.Writer, s *storage.Stats, schema int, now time.Time) {
	fmt.Fprintln(w, RenderConditional(TitleStyle, "Glyph cache"))
	fmt.Fprintln(w, RenderKV("Path", s.Path))
	fmt.Fprintln(w, RenderKV("Schema", fmt.Sprintf("v%d", schema)))
	fmt.Fprintln(w, RenderKV("Size", formatBytes(s.SizeBytes)))
	fmt.Fprintln(w, RenderKV("Glyphs", fmt.Sprintf("%d in %d style sets", s.Glyphs, s.StyleSets)))
	fmt.Fprintln(w, RenderKV("Generations", fmt.Sprint(s.Generations)))
	if s.Glyphs == 0 {
		return
	}
	fmt.Fprintln(w, RenderKV("Oldest", formatAge(s.Oldest, now)))
	fmt.Fprintln(w, RenderKV("Newest", formatAge(s.Newest, now)))

	fmt.Fprintln(w, RenderConditional(SectionStyle, "Style sets"))
	for _, set := range s.Sets {
		fmt.Fprintf(w, "  %-40s %5d  %s\n", set.StyleKey, set.Glyphs, DimStyle.Render(formatAge(set.Newest, now)))
	}
}
