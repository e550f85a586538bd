// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package outbox publishes accepted messages.
//
// When the host's send gate accepts content, the message is handed to a
// Dispatcher, which publishes it on a worker goroutine so the composer's
// update loop never waits on the network.
//
// # Sinks
//
//   - LogSink: writes each message to a structured logger
//   - KafkaSink: produces each message as JSON to a Kafka topic
package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/composer-tui/internal/composer"
)

// =============================================================================
// MESSAGE
// =============================================================================

// Message is an accepted composer submission.
type Message struct {
	ID       string       `json:"id"`
	SpaceID  string       `json:"spaceId"`
	Text     string       `json:"text"`
	Mentions []MentionRef `json:"mentions,omitempty"`
	SentAt   time.Time    `json:"sentAt"`
}

// MentionRef locates a mention inside Message.Text by rune offsets.
type MentionRef struct {
	EntityID string `json:"entityId"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// NewMessage builds a message with a fresh ID and the current time.
func NewMessage(spaceID, text string, spans []composer.MentionSpan) Message {
	msg := Message{
		ID:      uuid.NewString(),
		SpaceID: spaceID,
		Text:    text,
		SentAt:  time.Now().UTC(),
	}
	for _, s := range spans {
		msg.Mentions = append(msg.Mentions, MentionRef{EntityID: s.EntityID, Start: s.Start, End: s.End})
	}
	return msg
}

// =============================================================================
// SINKS
// =============================================================================

// Sink publishes messages.
type Sink interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// LogSink logs each message.
type LogSink struct {
	Logger *slog.Logger
}

// Publish logs msg at info level.
func (s LogSink) Publish(ctx context.Context, msg Message) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "MESSAGE_SENT",
		"id", msg.ID,
		"space", msg.SpaceID,
		"length", len(msg.Text),
		"mentions", len(msg.Mentions),
	)
	return nil
}

// Close is a no-op.
func (LogSink) Close() error {
	return nil
}
