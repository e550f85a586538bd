// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package entity

// sampleEntities is the built-in directory used when no seed file is configured.
var sampleEntities = []Entity{
	{ID: "all", DisplayName: "All", ObjectType: TypeGroupMention},
	{ID: "here", DisplayName: "Here", ObjectType: TypeGroupMention},
	{ID: "moderators", DisplayName: "Moderators", ObjectType: TypeGroupMention},
	{DisplayName: "Philip Fry"},
	{DisplayName: "Turanga Leela"},
	{DisplayName: "Hubert Farnsworth"},
	{DisplayName: "Zapp Brannigan"},
	{DisplayName: "John Zoidberg"},
	{DisplayName: "Amy Wang"},
	{DisplayName: "Bender Rodriguez"},
	{DisplayName: "Hermes Conrad"},
	{DisplayName: "Kif Kroker"},
	{DisplayName: "Barbados Slim"},
	{DisplayName: "Bill McNeal"},
}

// SampleDirectory returns the built-in people and groups, sanitized with s.
// "Here" lists Fry, Leela and Farnsworth as present; "Moderators" lists
// Farnsworth, Brannigan and Zoidberg.
func SampleDirectory(s *Sanitizer) ([]Entity, error) {
	raw := make([]Entity, len(sampleEntities))
	copy(raw, sampleEntities)

	users, err := s.SanitizeAll(raw)
	if err != nil {
		return nil, err
	}

	here, err := WithMembers(users[1], users[3], users[4], users[5])
	if err != nil {
		return nil, err
	}
	users[1] = here

	moderators, err := WithMembers(users[2], users[5], users[6], users[7])
	if err != nil {
		return nil, err
	}
	users[2] = moderators

	return users, nil
}
