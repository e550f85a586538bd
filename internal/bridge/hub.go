// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"github.com/jeranaias/composer-tui/internal/composer"
	"github.com/jeranaias/composer-tui/internal/logging"
)

// =============================================================================
// HUB
// =============================================================================

// HubOptions configures a Hub.
type HubOptions struct {
	// RatePerSecond and Burst limit inbound frames per connection.
	RatePerSecond float64
	Burst         int

	// OriginPatterns are passed to websocket.Accept. Empty allows same origin only.
	OriginPatterns []string

	// SendBuffer bounds queued outbound frames per client. Default 64.
	SendBuffer int
}

// Hub accepts websocket clients, forwards their commands to a channel and
// broadcasts events back to them.
type Hub struct {
	channel *composer.Channel
	opts    HubOptions
	logger  *slog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
	once    sync.Once
}

func (c *client) closeSend() {
	c.once.Do(func() { close(c.send) })
}

// NewHub creates a hub forwarding to ch.
func NewHub(ch *composer.Channel, opts HubOptions, logger *slog.Logger) *Hub {
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 20
	}
	if opts.Burst <= 0 {
		opts.Burst = 40
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 64
	}
	return &Hub{
		channel: ch,
		opts:    opts,
		logger:  logging.OrDefault(logger),
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.OriginPatterns,
	})
	if err != nil {
		h.logger.Warn("WS_UPGRADE_FAILED", "remote", GetClientIP(r), "error", err)
		return
	}

	c := &client{
		conn:    conn,
		send:    make(chan []byte, h.opts.SendBuffer),
		limiter: rate.NewLimiter(rate.Limit(h.opts.RatePerSecond), h.opts.Burst),
	}
	h.register(c)
	h.logger.Info("WS_CONNECTED", "remote", GetClientIP(r), "clients", h.Count())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go h.writePump(ctx, c)
	h.readPump(ctx, c)

	h.unregister(c)
	conn.Close(websocket.StatusNormalClosure, "")
	h.logger.Info("WS_DISCONNECTED", "remote", GetClientIP(r), "clients", h.Count())
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.closeSend()
	}
	h.mu.Unlock()
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// readPump forwards inbound frames to the channel until the connection ends.
func (h *Hub) readPump(ctx context.Context, c *client) {
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				h.logger.Debug("WS_READ_ENDED", "error", err)
			}
			return
		}
		if typ != websocket.MessageText {
			h.reply(c, EventFrame{Type: EventError, Error: "text frames only"})
			continue
		}
		if !c.limiter.Allow() {
			h.reply(c, EventFrame{Type: EventError, Error: "rate limited"})
			continue
		}

		cmd, err := DecodeCommand(data)
		if err != nil {
			h.reply(c, EventFrame{Type: EventError, Error: err.Error()})
			continue
		}
		if err := h.channel.Emit(cmd); err != nil {
			h.reply(c, EventFrame{Type: EventError, Command: cmd.Kind.String(), Error: err.Error()})
			if errors.Is(err, composer.ErrChannelClosed) {
				return
			}
		}
	}
}

// writePump writes queued frames until the send queue closes, then closes
// the connection, which also ends readPump.
func (h *Hub) writePump(ctx context.Context, c *client) {
	defer c.conn.Close(websocket.StatusNormalClosure, "")

	for msg := range c.send {
		wctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := c.conn.Write(wctx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			h.logger.Debug("WS_WRITE_FAILED", "error", err)
			return
		}
	}
}

// reply queues ev for one client.
func (h *Hub) reply(c *client, ev EventFrame) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// Broadcast queues ev for every client. Clients whose queue is full are
// dropped and disconnected.
func (h *Hub) Broadcast(ev EventFrame) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("WS_MARSHAL_FAILED", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			c.closeSend()
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.closeSend()
	}
}
