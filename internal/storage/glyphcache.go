// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/typemorph/internal/glyph"
	"github.com/jeranaias/typemorph/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError = errors.New("database error")
	ErrClosed        = errors.New("glyph cache closed")
	ErrEmptyStyleKey = errors.New("empty style key")
)

// lookupChunk bounds the number of placeholders in one IN clause.
const lookupChunk = 500

// =============================================================================
// CONFIG
// =============================================================================

// Config holds cache configuration.
type Config struct {
	// DatabasePath is where the SQLite database lives.
	DatabasePath string

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// DefaultConfig returns the configuration for ~/.typemorph/glyphs.db.
func DefaultConfig() *Config {
	dir, err := util.AppDir()
	if err != nil {
		dir = util.AppDirName
	}
	return &Config{DatabasePath: filepath.Join(dir, "glyphs.db")}
}

// =============================================================================
// GLYPH CACHE
// =============================================================================

// GlyphCache stores generated glyphs per style set. It is safe for
// concurrent use; SQLite serializes writers.
type GlyphCache struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open opens or creates the cache database.
func Open(config *Config) (*GlyphCache, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if dir := filepath.Dir(config.DatabasePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}
	c := &GlyphCache{db: db, path: config.DatabasePath, now: now}

	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return c, nil
}

func (c *GlyphCache) initSchema() error {
	if _, err := c.db.Exec(Schema); err != nil {
		return err
	}
	_, err := c.db.Exec(InitMetadata)
	return err
}

// Path returns the database file path.
func (c *GlyphCache) Path() string {
	return c.path
}

// Close releases the database.
func (c *GlyphCache) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// SchemaVersion reads the schema version recorded in the database.
func (c *GlyphCache) SchemaVersion(ctx context.Context) (int, error) {
	if c.db == nil {
		return 0, ErrClosed
	}
	var v int
	err := c.db.QueryRowContext(ctx, "SELECT CAST(value AS INTEGER) FROM metadata WHERE key = 'schema_version'").Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return v, nil
}

// =============================================================================
// STYLE KEYS
// =============================================================================

// StyleKey builds the cache key for a set of style names. Order, case,
// surrounding space and duplicates do not matter.
func StyleKey(styleNames []string) string {
	seen := make(map[string]bool, len(styleNames))
	names := make([]string, 0, len(styleNames))
	for _, n := range styleNames {
		n = strings.ToLower(strings.Join(strings.Fields(n), " "))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// =============================================================================
// READ / WRITE
// =============================================================================

// Lookup returns the cached glyphs among chars for styleKey. Characters
// without a cached glyph are simply absent from the result.
func (c *GlyphCache) Lookup(ctx context.Context, styleKey string, chars []string) (glyph.FontMap, error) {
	if c.db == nil {
		return nil, ErrClosed
	}
	out := glyph.FontMap{}
	if styleKey == "" || len(chars) == 0 {
		return out, nil
	}

	for start := 0; start < len(chars); start += lookupChunk {
		end := min(start+lookupChunk, len(chars))
		batch := chars[start:end]

		args := make([]any, 0, len(batch)+1)
		args = append(args, styleKey)
		for _, ch := range batch {
			args = append(args, ch)
		}
		query := "SELECT char, path, width FROM glyphs WHERE style_key = ? AND char IN (?" +
			strings.Repeat(",?", len(batch)-1) + ")"

		rows, err := c.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		for rows.Next() {
			var ch string
			var d glyph.Descriptor
			if err := rows.Scan(&ch, &d.Path, &d.Width); err != nil {
				rows.Close()
				return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
			}
			out[ch] = d
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}
	return out, nil
}

// LookupAll returns every cached glyph for styleKey.
func (c *GlyphCache) LookupAll(ctx context.Context, styleKey string) (glyph.FontMap, error) {
	if c.db == nil {
		return nil, ErrClosed
	}
	rows, err := c.db.QueryContext(ctx, "SELECT char, path, width FROM glyphs WHERE style_key = ?", styleKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	out := glyph.FontMap{}
	for rows.Next() {
		var ch string
		var d glyph.Descriptor
		if err := rows.Scan(&ch, &d.Path, &d.Width); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		out[ch] = d
	}
	return out, rows.Err()
}

// Store saves fm under styleKey in one transaction, replacing glyphs already
// cached for the same characters. All rows share a new generation id, which
// is returned. Entries with an empty path are skipped.
func (c *GlyphCache) Store(ctx context.Context, styleKey string, fm glyph.FontMap) (string, error) {
	if c.db == nil {
		return "", ErrClosed
	}
	if styleKey == "" {
		return "", ErrEmptyStyleKey
	}
	if fm.Len() == 0 {
		return "", nil
	}

	genID := uuid.New().String()
	createdAt := c.now().UnixMilli()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO glyphs (style_key, char, path, width, generation_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(style_key, char) DO UPDATE SET
			path = excluded.path,
			width = excluded.width,
			generation_id = excluded.generation_id,
			created_at = excluded.created_at`)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for _, ch := range fm.Keys() {
		d := fm[ch]
		if d.Path == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, styleKey, ch, d.Path, d.Width, genID, createdAt); err != nil {
			return "", fmt.Errorf("failed to store glyph %q: %w", ch, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return genID, nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// StyleSetStats summarizes one style set.
type StyleSetStats struct {
	StyleKey string    `json:"style_key"`
	Glyphs   int       `json:"glyphs"`
	Newest   time.Time `json:"newest"`
}

// Stats summarizes the cache.
type Stats struct {
	Path        string          `json:"path"`
	Glyphs      int             `json:"glyphs"`
	StyleSets   int             `json:"style_sets"`
	Generations int             `json:"generations"`
	Oldest      time.Time       `json:"oldest,omitempty"`
	Newest      time.Time       `json:"newest,omitempty"`
	SizeBytes   int64           `json:"size_bytes"`
	Sets        []StyleSetStats `json:"sets,omitempty"`
}

// Stats reports counts, timestamps and file size.
func (c *GlyphCache) Stats(ctx context.Context) (*Stats, error) {
	if c.db == nil {
		return nil, ErrClosed
	}
	s := &Stats{Path: c.path}

	var oldest, newest sql.NullInt64
	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT style_key), COUNT(DISTINCT generation_id),
		       MIN(created_at), MAX(created_at)
		FROM glyphs`).Scan(&s.Glyphs, &s.StyleSets, &s.Generations, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if oldest.Valid {
		s.Oldest = time.UnixMilli(oldest.Int64)
	}
	if newest.Valid {
		s.Newest = time.UnixMilli(newest.Int64)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT style_key, COUNT(*), MAX(created_at)
		FROM glyphs GROUP BY style_key ORDER BY style_key`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()
	for rows.Next() {
		var set StyleSetStats
		var ms int64
		if err := rows.Scan(&set.StyleKey, &set.Glyphs, &ms); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		set.Newest = time.UnixMilli(ms)
		s.Sets = append(s.Sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	if info, err := os.Stat(c.path); err == nil {
		s.SizeBytes = info.Size()
	}
	return s, nil
}

// Clear deletes every cached glyph and returns how many were removed.
func (c *GlyphCache) Clear(ctx context.Context) (int64, error) {
	if c.db == nil {
		return 0, ErrClosed
	}
	res, err := c.db.ExecContext(ctx, "DELETE FROM glyphs")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return res.RowsAffected()
}

// Prune deletes glyphs older than ttl and returns how many were removed.
func (c *GlyphCache) Prune(ctx context.Context, ttl time.Duration) (int64, error) {
	if c.db == nil {
		return 0, ErrClosed
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("prune: ttl must be positive, got %s", ttl)
	}
	cutoff := c.now().Add(-ttl).UnixMilli()
	res, err := c.db.ExecContext(ctx, "DELETE FROM glyphs WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return res.RowsAffected()
}
