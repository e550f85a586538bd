// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"context"
	"errors"

	"github.com/jeranaias/composer-tui/internal/composer"
)

// Broadcaster receives events produced by Pump.
type Broadcaster interface {
	Broadcast(ev EventFrame)
}

// Pump owns c for a headless host: it applies channel commands in order and
// broadcasts each outcome. It returns when ctx ends or the channel closes.
func Pump(ctx context.Context, c *composer.Composer, out Broadcaster) error {
	ch := c.Channel()
	if ch == nil {
		return composer.ErrNotMounted
	}
	for {
		cmd, err := ch.Next(ctx)
		if err != nil {
			if errors.Is(err, composer.ErrChannelClosed) {
				return nil
			}
			return err
		}
		res := c.Apply(cmd)
		out.Broadcast(EventFor(cmd, res, c.DraftID()))
	}
}
