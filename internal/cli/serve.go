// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - The "serve" command: a headless composer behind a websocket bridge.
//
// Command: serve
// Short:   Run the composer headless and accept channel commands over websocket
// Aliases: bridge
//
// Examples:
//   composer serve                          Listen on bridge.addr (127.0.0.1:8788)
//   composer serve --addr 0.0.0.0:9000      Listen elsewhere
//
// Clients connect to ws://ADDR/ws and send {"type":"INSERT_TEXT","text":"hi"}
// frames; every outcome is broadcast back. GET /health reports status.

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/jeranaias/composer-tui/internal/bridge"
)

// shutdownTimeout bounds graceful shutdown of the bridge.
const shutdownTimeout = 5 * time.Second

// HandleServe runs until ctx is cancelled (SIGINT/SIGTERM in main).
func HandleServe(ctx context.Context, args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	if args.Addr != "" {
		cfg.Bridge.Addr = args.Addr
	}

	rt, err := NewRuntime(ctx, cfg, RuntimeOptions{LogOutput: os.Stderr})
	if err != nil {
		return err
	}
	defer rt.Close()

	srv := bridge.NewServer(rt.Host.Channel(), bridge.HubOptions{
		RatePerSecond:  cfg.Bridge.RatePerSecond,
		Burst:          cfg.Bridge.Burst,
		OriginPatterns: cfg.Bridge.OriginPatterns,
	}, rt.Logger)

	ln, err := net.Listen("tcp", cfg.Bridge.Addr)
	if err != nil {
		return NewCommandError("serve", "listen", "cannot listen on "+cfg.Bridge.Addr, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := rt.Host.Channel().Focus(); err != nil {
		return err
	}

	pumpErr := make(chan error, 1)
	go func() {
		pumpErr <- bridge.Pump(ctx, rt.Host.Composer(), srv.Hub())
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	if !args.Quiet {
		fmt.Fprintf(os.Stderr, "%s bridge listening on ws://%s/ws (space %s)\n",
			SuccessStyle.Render("[OK]"), ln.Addr().String(), rt.Host.Space())
	}

	var runErr error
	pumpDone := false
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = err
	case err := <-pumpErr:
		pumpDone = true
		if err != nil && !errors.Is(err, context.Canceled) {
			runErr = err
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		rt.Logger.Warn("SHUTDOWN_FAILED", "error", err)
	}
	cancel()
	if !pumpDone {
		<-pumpErr
	}

	accepted, rejected, _ := rt.Host.Stats()
	rt.Logger.Info("SERVE_STOPPED", "accepted", accepted, "rejected", rejected)
	return runErr
}
