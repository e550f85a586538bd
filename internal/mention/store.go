// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"

	"github.com/jeranaias/composer-tui/internal/entity"
)

// EntitySearcher looks entities up by case-insensitive display name prefix.
// storage.Entities implements it.
type EntitySearcher interface {
	Search(ctx context.Context, prefix string) ([]entity.Entity, error)
}

// StoreProvider is a Provider backed by a persistent entity table.
type StoreProvider struct {
	*Renderer
	store EntitySearcher
}

// NewStoreProvider creates a provider over store. A nil renderer uses
// NewRenderer.
func NewStoreProvider(r *Renderer, store EntitySearcher) *StoreProvider {
	if r == nil {
		r = NewRenderer()
	}
	return &StoreProvider{Renderer: r, store: store}
}

// Filter searches the store.
func (p *StoreProvider) Filter(ctx context.Context, query string) ([]entity.Entity, error) {
	return p.store.Search(ctx, query)
}
