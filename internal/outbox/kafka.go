// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
)

// ErrNoBrokers is returned when a Kafka sink is configured without brokers.
var ErrNoBrokers = errors.New("no kafka brokers configured")

// MessageWriter is the part of *kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaOptions configures a KafkaSink.
type KafkaOptions struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// KafkaSink produces messages to a Kafka topic keyed by space ID.
type KafkaSink struct {
	writer MessageWriter
}

// NewKafkaSink creates a sink writing through a kafka.Writer.
func NewKafkaSink(opts KafkaOptions) (*KafkaSink, error) {
	if len(opts.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if opts.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}
	batch := opts.BatchTimeout
	if batch <= 0 {
		batch = 10 * time.Millisecond
	}

	return NewKafkaSinkWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(opts.Brokers...),
		Topic:        opts.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: batch,
	}), nil
}

// NewKafkaSinkWithWriter creates a sink over an existing writer.
func NewKafkaSinkWithWriter(w MessageWriter) *KafkaSink {
	return &KafkaSink{writer: w}
}

// Publish encodes msg as JSON and writes it.
func (s *KafkaSink) Publish(ctx context.Context, msg Message) error {
	serialized, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message %s: %w", msg.ID, err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.SpaceID),
		Value: serialized,
		Headers: []kafka.Header{
			{Key: "message-id", Value: []byte(msg.ID)},
		},
		Time: msg.SentAt,
	})
	if err != nil {
		return fmt.Errorf("write message %s: %w", msg.ID, err)
	}
	return nil
}

// Close closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
