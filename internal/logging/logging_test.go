// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestPrettyHandler_Handle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "DEBUG:"},
		{slog.LevelInfo, "INFO:"},
		{slog.LevelWarn, "WARN:"},
		{slog.LevelError, "ERROR:"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewPrettyHandler(&buf, PrettyHandlerOptions{SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug}})

			r := slog.NewRecord(time.Now(), tt.level, "SEND_ACCEPTED", 0)
			r.AddAttrs(slog.String("space", "1"), slog.Int("length", 5))

			require.NoError(t, h.Handle(ctx, r))
			out := buf.String()
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "SEND_ACCEPTED")
			assert.Contains(t, out, `"space":"1"`)
			assert.Contains(t, out, `"length":5`)
			assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, out)
		})
	}
}

func TestPrettyHandler_EmptyAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, PrettyHandlerOptions{})

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "READY", 0)
	require.NoError(t, h.Handle(context.Background(), r))
	assert.Contains(t, buf.String(), "{}")
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, PrettyHandlerOptions{}))

	logger.With("component", "bridge").WithGroup("conn").Info("COMMAND", "type", "SEND", "err", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"component":"bridge"`)
	assert.Contains(t, out, `"conn.type":"SEND"`)
	assert.Contains(t, out, `"conn.err":"boom"`)
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "composer.log")

	logger, closer, err := OpenFile(path, "info")
	require.NoError(t, err)
	defer closer.Close()

	logger.Info("STARTED")
	assert.FileExists(t, path)
}
