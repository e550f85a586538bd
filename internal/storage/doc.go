// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides SQLite persistence for composer.
//
// A single database file holds two tables: the mention directory (entities) and
// the per-space drafts. The pure Go modernc.org/sqlite driver is used so the
// binary stays CGO free.
//
// # Key Types
//
//   - DB: an open database with the schema applied
//   - Entities: ordered mention directory with case-insensitive prefix search
//   - Drafts: last-write-wins draft values keyed by space ID
//
// # Usage
//
//	db, err := storage.Open(ctx, "~/.composer/composer.db")
//	defer db.Close()
//
//	err = db.Entities().Replace(ctx, users)
//	matches, err := db.Entities().Search(ctx, "phi")
//
//	err = db.Drafts().Put(ctx, "1", "hello")
package storage
