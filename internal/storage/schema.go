// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// Schema creates the composer tables.
const Schema = `
-- Metadata table for schema version
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Mention directory, ordered by position
CREATE TABLE IF NOT EXISTS entities (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    display_name TEXT NOT NULL,
    name_folded TEXT NOT NULL,  -- lowercased display_name for prefix search
    object_type TEXT NOT NULL,
    items TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_entities_position ON entities(position);
CREATE INDEX IF NOT EXISTS idx_entities_name_folded ON entities(name_folded);

-- Drafts: one value per space
CREATE TABLE IF NOT EXISTS drafts (
    space_id TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL -- Unix nanoseconds
);
`

// InitMetadata records the schema version on first open.
const InitMetadata = `
INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO metadata (key, value) VALUES ('created_at', strftime('%s', 'now'));
`
