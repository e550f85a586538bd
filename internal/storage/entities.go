// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jeranaias/composer-tui/internal/entity"
)

// Entities is the mention directory table.
type Entities struct {
	db *sql.DB
}

// Replace swaps the whole directory for entities in a single transaction.
// Directory order follows the slice order.
func (r *Entities) Replace(ctx context.Context, entities []entity.Entity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entities"); err != nil {
		return fmt.Errorf("failed to clear entities: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (id, position, display_name, name_folded, object_type, items)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entities {
		if _, err := stmt.ExecContext(ctx,
			e.ID, i, e.DisplayName, entity.Fold(e.DisplayName), string(e.ObjectType), e.Items,
		); err != nil {
			return fmt.Errorf("failed to insert entity %q: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entities: %w", err)
	}
	return nil
}

// All returns every entity in directory order.
func (r *Entities) All(ctx context.Context) ([]entity.Entity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, object_type, items
		FROM entities
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	return scanEntities(rows)
}

// Search returns entities whose display name starts with prefix, ignoring
// case, in directory order. An empty prefix returns every entity.
func (r *Entities) Search(ctx context.Context, prefix string) ([]entity.Entity, error) {
	if prefix == "" {
		return r.All(ctx)
	}

	// substr compares characters exactly, so no LIKE escaping is needed
	folded := entity.Fold(prefix)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, display_name, object_type, items
		FROM entities
		WHERE substr(name_folded, 1, length(?)) = ?
		ORDER BY position
	`, folded, folded)
	if err != nil {
		return nil, fmt.Errorf("failed to search entities: %w", err)
	}
	return scanEntities(rows)
}

// Get returns the entity with the given ID.
func (r *Entities) Get(ctx context.Context, id string) (entity.Entity, error) {
	var e entity.Entity
	var objectType string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, display_name, object_type, items FROM entities WHERE id = ?
	`, id).Scan(&e.ID, &e.DisplayName, &objectType, &e.Items)
	if err == sql.ErrNoRows {
		return entity.Entity{}, fmt.Errorf("entity %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return entity.Entity{}, fmt.Errorf("failed to get entity: %w", err)
	}
	e.ObjectType = entity.ObjectType(objectType)
	return e, nil
}

// Count returns the number of entities in the directory.
func (r *Entities) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entities").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return n, nil
}

func scanEntities(rows *sql.Rows) ([]entity.Entity, error) {
	defer rows.Close()

	var out []entity.Entity
	for rows.Next() {
		var e entity.Entity
		var objectType string
		if err := rows.Scan(&e.ID, &e.DisplayName, &objectType, &e.Items); err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		e.ObjectType = entity.ObjectType(objectType)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entities: %w", err)
	}
	return out, nil
}
