// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package entity

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrMalformedMembers is returned when a group's Items cannot be decoded.
var ErrMalformedMembers = errors.New("malformed member list")

// EncodeMembers serializes members into the Items convention (a JSON array).
func EncodeMembers(members []Entity) (string, error) {
	if members == nil {
		members = []Entity{}
	}
	data, err := json.Marshal(members)
	if err != nil {
		return "", fmt.Errorf("encode members: %w", err)
	}
	return string(data), nil
}

// DecodeMembers parses an Items value. An empty string yields no members.
func DecodeMembers(items string) ([]Entity, error) {
	if items == "" {
		return nil, nil
	}
	var members []Entity
	if err := json.Unmarshal([]byte(items), &members); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMembers, err)
	}
	return members, nil
}

// WithMembers returns a copy of group with Items set to the encoded members.
func WithMembers(group Entity, members ...Entity) (Entity, error) {
	items, err := EncodeMembers(members)
	if err != nil {
		return Entity{}, err
	}
	group.Items = items
	return group, nil
}
