// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/jeranaias/composer-tui/internal/entity"
)

// =============================================================================
// QUERY SUPERSESSION
// =============================================================================

// Result is the outcome of one Filter call.
type Result struct {
	Ticket   uint64
	Query    string
	Entities []entity.Entity
	Err      error
}

// Querier issues tickets for Filter calls. Only the result carrying the most
// recently issued ticket is accepted; older calls may still finish but their
// results are dropped. The zero value is ready to use.
type Querier struct {
	latest atomic.Uint64

	// Logger receives FILTER_FAILED warnings. Nil discards them.
	Logger *slog.Logger
}

// Begin issues a new ticket, superseding every earlier one.
func (q *Querier) Begin() uint64 {
	return q.latest.Add(1)
}

// Invalidate supersedes every outstanding ticket without starting a query.
func (q *Querier) Invalidate() {
	q.latest.Add(1)
}

// Accept reports whether ticket is still the latest.
func (q *Querier) Accept(ticket uint64) bool {
	return ticket == q.latest.Load()
}

// Latest returns the most recently issued ticket.
func (q *Querier) Latest() uint64 {
	return q.latest.Load()
}

// Run calls p.Filter for ticket. A failed or panicking Filter yields an empty
// entity list with Err set.
func (q *Querier) Run(ctx context.Context, p Provider, ticket uint64, query string) (res Result) {
	res = Result{Ticket: ticket, Query: query}

	defer func() {
		if r := recover(); r != nil {
			res.Entities = nil
			res.Err = &PanicError{Value: r}
			q.warn(res)
		}
	}()

	entities, err := p.Filter(ctx, query)
	if err != nil {
		res.Err = err
		q.warn(res)
		return res
	}
	res.Entities = entities
	return res
}

func (q *Querier) warn(res Result) {
	if q.Logger == nil {
		return
	}
	q.Logger.Warn("FILTER_FAILED", "query", res.Query, "ticket", res.Ticket, "error", res.Err)
}

// PanicError carries a value recovered from a panicking Filter.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return "mention filter panicked"
}
