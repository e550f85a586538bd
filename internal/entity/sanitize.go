// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package entity

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// ID GENERATION
// =============================================================================

// IDGenerator produces identifiers for entities that arrive without one.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random version 4 UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator generates "<prefix><n>" identifiers starting at 1.
// It is deterministic and safe for concurrent use.
type SequenceGenerator struct {
	Prefix string

	mu   sync.Mutex
	next int
}

// NewID returns the next identifier in the sequence.
func (g *SequenceGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return g.Prefix + strconv.Itoa(g.next)
}

// =============================================================================
// SANITIZER
// =============================================================================

// Sanitizer normalizes entities before they reach a mention provider.
type Sanitizer struct {
	ids IDGenerator
}

// NewSanitizer creates a sanitizer. A nil generator falls back to UUIDs.
func NewSanitizer(ids IDGenerator) *Sanitizer {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Sanitizer{ids: ids}
}

// Sanitize returns a normalized copy of e. A missing ID is generated and a
// missing object type becomes TypePerson. Members serialized in Items are
// sanitized the same way and re-encoded.
func (s *Sanitizer) Sanitize(e Entity) (Entity, error) {
	out := s.fill(e)

	if !out.HasMembers() {
		return out, nil
	}

	members, err := DecodeMembers(out.Items)
	if err != nil {
		return Entity{}, fmt.Errorf("entity %q: %w", out.DisplayName, err)
	}
	for i := range members {
		members[i] = s.fill(members[i])
	}
	items, err := EncodeMembers(members)
	if err != nil {
		return Entity{}, fmt.Errorf("entity %q: %w", out.DisplayName, err)
	}
	out.Items = items

	return out, nil
}

// SanitizeAll sanitizes every entity, stopping at the first malformed member list.
func (s *Sanitizer) SanitizeAll(entities []Entity) ([]Entity, error) {
	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		clean, err := s.Sanitize(e)
		if err != nil {
			return nil, err
		}
		out = append(out, clean)
	}
	return out, nil
}

func (s *Sanitizer) fill(e Entity) Entity {
	if e.ID == "" {
		e.ID = s.ids.NewID()
	}
	if e.ObjectType == "" {
		e.ObjectType = TypePerson
	}
	return e
}
