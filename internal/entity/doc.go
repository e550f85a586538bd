// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package entity defines the people and groups that can be mentioned in a message.
//
// Entities are normalized once by the host through a Sanitizer before they are
// handed to a mention provider. Providers trust the result: every entity they see
// has a non-empty ID and ObjectType.
//
// # Key Types
//
//   - Entity: a person or group record usable as a mention candidate
//   - ObjectType: "person" or "groupMention"
//   - Sanitizer: fills in missing IDs and object types
//   - IDGenerator: pluggable ID source (UUIDGenerator, SequenceGenerator)
//
// # Group Members
//
// Group entities carry their members in Items as a JSON array of entities.
// The format is a convention between the host and its data sources; providers
// never interpret it.
//
// # Usage
//
//	s := entity.NewSanitizer(entity.UUIDGenerator{})
//	users, err := s.SanitizeAll(raw)
package entity
