// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides @mention candidate lookup and rendering.
//
// A Provider answers Filter queries with entities and knows how each entity is
// shown in the suggestion popup and inside message text. Filter may be slow, so
// callers run it off the update loop and gate its results through a Querier:
// only the most recently issued query is ever applied.
//
// # Providers
//
//   - Directory: in-memory candidate set, swapped atomically by Replace
//   - StoreProvider: candidate set held in the SQLite entity table
//   - Guarded: circuit breaker around another provider's Filter
//
// # Usage
//
//	dir := mention.NewDirectory(mention.NewRenderer(), users)
//	q := &mention.Querier{}
//
//	ticket := q.Begin()
//	res := q.Run(ctx, dir, ticket, "phi")
//	if q.Accept(res.Ticket) {
//	    show(res.Entities)
//	}
package mention
