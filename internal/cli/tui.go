// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - The "tui" command: the full-screen composer playground.

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/composer-tui/internal/ui/playground"
	"github.com/jeranaias/composer-tui/internal/ui/styles"
)

// HandleTUI runs the playground until the user quits or ctx ends.
func HandleTUI(ctx context.Context, args Args) error {
	if err := RequiresTTY("run the TUI"); err != nil {
		return err
	}
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	rt, err := NewRuntime(ctx, cfg, RuntimeOptions{})
	if err != nil {
		return err
	}
	defer rt.Close()

	m := playground.New(ctx, rt.Host, playground.Options{
		Theme:          styles.NewTheme(),
		MaxSuggestions: cfg.Mentions.MaxSuggestions,
		Logger:         rt.Logger,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
