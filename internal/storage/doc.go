// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage is the client-side glyph cache.
//
// Generated glyphs are kept in a SQLite database keyed by the set of style
// names they were blended from and the character, so a later request for the
// same styles only has to ask the service for characters not seen before.
//
// # Key Types
//
//   - GlyphCache: the database handle
//   - Stats: counts and timestamps for `typemorph cache stats`
//
// # Usage
//
//	cache, err := storage.Open(storage.DefaultConfig())
//	key := storage.StyleKey([]string{"Inter", "Anton"})
//	hit, err := cache.Lookup(ctx, key, []string{"H", "i"})
//	err = cache.Store(ctx, key, generated)
//
// # Storage Location
//
// The database lives at ~/.typemorph/glyphs.db.
package storage
