// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

const (
	// SchemaVersion tracks the database schema version for migrations.
	SchemaVersion = 1
)

// Schema creates the cache tables.
const Schema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS glyphs (
    style_key TEXT NOT NULL,
    char TEXT NOT NULL,
    path TEXT NOT NULL CHECK (path <> ''),
    width REAL NOT NULL,
    generation_id TEXT NOT NULL,
    created_at INTEGER NOT NULL, -- Unix milliseconds
    PRIMARY KEY (style_key, char)
) WITHOUT ROWID;

CREATE INDEX IF NOT EXISTS idx_glyphs_created_at ON glyphs(created_at);
CREATE INDEX IF NOT EXISTS idx_glyphs_generation ON glyphs(generation_id);
`

// InitMetadata seeds the metadata table.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('created_at', strftime('%s', 'now'));
`
