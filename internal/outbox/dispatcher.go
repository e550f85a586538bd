// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package outbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeranaias/composer-tui/internal/logging"
)

var (
	// ErrQueueFull is returned by Submit when the queue is at capacity.
	ErrQueueFull = errors.New("outbox queue full")

	// ErrDispatcherClosed is returned by Submit after Close.
	ErrDispatcherClosed = errors.New("outbox dispatcher closed")
)

// DefaultQueueSize is the number of messages that may wait for publishing.
const DefaultQueueSize = 256

// PublishTimeout bounds one Publish call.
const PublishTimeout = 10 * time.Second

// Stats counts dispatcher activity.
type Stats struct {
	Published uint64
	Failed    uint64
	Dropped   uint64
}

// Dispatcher publishes messages to a sink on a worker goroutine.
type Dispatcher struct {
	sink   Sink
	queue  chan Message
	logger *slog.Logger

	published atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts a dispatcher. size <= 0 uses DefaultQueueSize.
func NewDispatcher(sink Sink, size int, logger *slog.Logger) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	d := &Dispatcher{
		sink:   sink,
		queue:  make(chan Message, size),
		logger: logging.OrDefault(logger),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Submit queues msg without blocking.
func (d *Dispatcher) Submit(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	select {
	case d.queue <- msg:
		return nil
	default:
		d.dropped.Add(1)
		d.logger.Warn("OUTBOX_FULL", "id", msg.ID, "space", msg.SpaceID)
		return ErrQueueFull
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), PublishTimeout)
		err := d.sink.Publish(ctx, msg)
		cancel()

		if err != nil {
			d.failed.Add(1)
			d.logger.Error("OUTBOX_PUBLISH_FAILED", "id", msg.ID, "space", msg.SpaceID, "error", err)
			continue
		}
		d.published.Add(1)
	}
}

// Stats returns a snapshot of the counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Published: d.published.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}

// Close publishes every queued message, then closes the sink.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	return d.sink.Close()
}
