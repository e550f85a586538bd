// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package entity

import (
	"strings"
)

// =============================================================================
// OBJECT TYPES
// =============================================================================

// ObjectType tags an entity as a single person or a group mention.
type ObjectType string

const (
	// TypePerson is a single human. It is the default when no type is given.
	TypePerson ObjectType = "person"

	// TypeGroupMention addresses a group such as "All" or "Here".
	TypeGroupMention ObjectType = "groupMention"
)

// String returns the wire name of the object type.
func (t ObjectType) String() string {
	return string(t)
}

// IsPerson reports whether the type is TypePerson.
func (t ObjectType) IsPerson() bool {
	return t == TypePerson
}

// =============================================================================
// ENTITY
// =============================================================================

// Entity is a person or group usable as a mention candidate.
type Entity struct {
	// ID is unique within a provider's candidate set.
	ID string `json:"id,omitempty" toml:"id" yaml:"id,omitempty"`

	// DisplayName is the human readable name, e.g. "Philip Fry".
	DisplayName string `json:"displayName" toml:"display_name" yaml:"displayName"`

	// ObjectType defaults to TypePerson after sanitization.
	ObjectType ObjectType `json:"objectType,omitempty" toml:"object_type" yaml:"objectType,omitempty"`

	// Items is the serialized member list of a group entity.
	Items string `json:"items,omitempty" toml:"items" yaml:"items,omitempty"`
}

// IsGroup reports whether the entity is a group mention.
func (e Entity) IsGroup() bool {
	return e.ObjectType == TypeGroupMention
}

// HasMembers reports whether the entity carries a serialized member list.
func (e Entity) HasMembers() bool {
	return strings.TrimSpace(e.Items) != ""
}

// FirstName returns the first whitespace-delimited token of the display name.
func (e Entity) FirstName() string {
	fields := strings.Fields(e.DisplayName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Display returns the text shown when the entity is inserted into a message.
// People are shown by first name only; every other type keeps the full name.
func (e Entity) Display() string {
	if e.ObjectType.IsPerson() {
		return e.FirstName()
	}
	return e.DisplayName
}
