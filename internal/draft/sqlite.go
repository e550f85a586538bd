// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package draft

import (
	"context"
	"errors"

	"github.com/jeranaias/composer-tui/internal/storage"
)

// SQLiteStore keeps drafts in the composer database.
type SQLiteStore struct {
	db     *storage.DB
	drafts *storage.Drafts
	owned  bool
}

// NewSQLiteStore uses an already open database. Close leaves it open.
func NewSQLiteStore(db *storage.DB) *SQLiteStore {
	return &SQLiteStore{db: db, drafts: db.Drafts()}
}

// OpenSQLiteStore opens the database at path. Close closes it.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, drafts: db.Drafts(), owned: true}, nil
}

// Load returns the stored draft.
func (s *SQLiteStore) Load(ctx context.Context, spaceID string) (string, error) {
	value, err := s.drafts.Get(ctx, spaceID)
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrNotFound
	}
	return value, err
}

// Save upserts value.
func (s *SQLiteStore) Save(ctx context.Context, spaceID, value string) error {
	return s.drafts.Put(ctx, spaceID, value)
}

// Close closes the database if the store opened it.
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
