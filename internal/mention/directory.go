// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"
	"sync"

	"github.com/jeranaias/composer-tui/internal/entity"
)

// =============================================================================
// IN-MEMORY DIRECTORY
// =============================================================================

// Directory is an in-memory Provider over a fixed candidate list.
type Directory struct {
	*Renderer

	mu       sync.RWMutex
	entities []entity.Entity
}

// NewDirectory creates a directory over entities. A nil renderer uses
// NewRenderer.
func NewDirectory(r *Renderer, entities []entity.Entity) *Directory {
	if r == nil {
		r = NewRenderer()
	}
	d := &Directory{Renderer: r}
	d.Replace(entities)
	return d
}

// Filter returns matching entities in directory order.
func (d *Directory) Filter(ctx context.Context, query string) ([]entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return FilterEntities(d.entities, query), nil
}

// Replace swaps the candidate set. Queries already running keep the old set.
func (d *Directory) Replace(entities []entity.Entity) {
	list := make([]entity.Entity, len(entities))
	copy(list, entities)

	d.mu.Lock()
	d.entities = list
	d.mu.Unlock()
}

// Len returns the number of candidates.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entities)
}
