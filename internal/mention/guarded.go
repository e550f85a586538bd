// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jeranaias/composer-tui/internal/entity"
)

// ErrCircuitOpen is returned by Guarded.Filter while the breaker is open.
var ErrCircuitOpen = errors.New("mention provider circuit is open")

// GuardConfig configures the circuit breaker around a provider.
type GuardConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	// Default: 3
	MaxFailures uint32

	// Timeout is how long the circuit stays open before a trial request.
	// Default: 10 seconds
	Timeout time.Duration

	// HalfOpenMaxRequests is the number of trial requests allowed while half-open.
	// Default: 1
	HalfOpenMaxRequests uint32
}

// DefaultGuardConfig returns the default breaker settings.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		MaxFailures:         3,
		Timeout:             10 * time.Second,
		HalfOpenMaxRequests: 1,
	}
}

// Guarded wraps a Provider's Filter in a circuit breaker. Rendering passes
// straight through to the wrapped provider.
type Guarded struct {
	Provider
	breaker *gobreaker.CircuitBreaker
}

// NewGuarded wraps p. A nil logger discards state changes.
func NewGuarded(p Provider, cfg GuardConfig, logger *slog.Logger) *Guarded {
	def := DefaultGuardConfig()
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = def.MaxFailures
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.HalfOpenMaxRequests == 0 {
		cfg.HalfOpenMaxRequests = def.HalfOpenMaxRequests
	}

	settings := gobreaker.Settings{
		Name:        "mention-filter",
		MaxRequests: cfg.HalfOpenMaxRequests,
		Interval:    0,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// A superseded query cancelled by the caller is not a provider fault.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("BREAKER_STATE", "name", name, "from", from.String(), "to", to.String())
			}
		},
	}

	return &Guarded{Provider: p, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Filter runs the wrapped Filter through the breaker.
func (g *Guarded) Filter(ctx context.Context, query string) ([]entity.Entity, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.Provider.Filter(ctx, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}
	entities, _ := result.([]entity.Entity)
	return entities, nil
}

// State returns the breaker state name: "closed", "half-open" or "open".
func (g *Guarded) State() string {
	return g.breaker.State().String()
}
