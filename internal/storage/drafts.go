// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Drafts is the per-space draft table.
type Drafts struct {
	db *sql.DB
}

// Get returns the draft value for spaceID, or ErrNotFound.
func (r *Drafts) Get(ctx context.Context, spaceID string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM drafts WHERE space_id = ?", spaceID,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("draft %q: %w", spaceID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get draft: %w", err)
	}
	return value, nil
}

// Put stores value for spaceID. The last write wins.
func (r *Drafts) Put(ctx context.Context, spaceID, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO drafts (space_id, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(space_id) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, spaceID, value, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Delete removes the draft for spaceID. Deleting a missing draft is not an error.
func (r *Drafts) Delete(ctx context.Context, spaceID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM drafts WHERE space_id = ?", spaceID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
