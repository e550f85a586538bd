// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package draft persists composer drafts per space.
//
// A Store keeps one value per space ID with last-write-wins semantics. Bind
// turns a store and a space into the composer.Draft handle a composer seeds
// from and saves into.
package draft

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/logging"
)

// ErrNotFound is returned by Load when a space has no draft.
var ErrNotFound = errors.New("draft not found")

// SaveTimeout bounds a single Save issued by a bound draft.
const SaveTimeout = 2 * time.Second

// Store persists draft values.
type Store interface {
	// Load returns the draft for spaceID or ErrNotFound.
	Load(ctx context.Context, spaceID string) (string, error)

	// Save stores value for spaceID. Saving the same value twice is harmless.
	Save(ctx context.Context, spaceID, value string) error

	// Close releases the store.
	Close() error
}

// Bind loads the draft for spaceID and returns a handle whose Save writes
// back into store. Save failures are logged, not returned.
func Bind(ctx context.Context, store Store, spaceID string, logger *slog.Logger) (*composer.Draft, error) {
	logger = logging.OrDefault(logger)

	value, err := store.Load(ctx, spaceID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return &composer.Draft{
		ID:    spaceID,
		Value: value,
		Save: func(value, id string) {
			ctx, cancel := context.WithTimeout(context.Background(), SaveTimeout)
			defer cancel()
			if err := store.Save(ctx, id, value); err != nil {
				logger.Warn("DRAFT_SAVE_FAILED", "space", id, "error", err)
			}
		},
	}, nil
}

// =============================================================================
// MEMORY STORE
// =============================================================================

// MemoryStore keeps drafts in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]string)}
}

// Load returns the stored draft.
func (s *MemoryStore) Load(ctx context.Context, spaceID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.drafts[spaceID]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Save stores value.
func (s *MemoryStore) Save(ctx context.Context, spaceID, value string) error {
	s.mu.Lock()
	s.drafts[spaceID] = value
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
