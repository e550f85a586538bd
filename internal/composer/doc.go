// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package composer implements the message composer and its command channel.
//
// A Composer owns the message content. Hosts drive it in two directions:
//
//   - Host to composer: a Channel, delivered once through Config.SetChannel
//     at Mount, carries FOCUS, INSERT_TEXT, SEND and CLEAR commands. Commands
//     are applied in the order they were issued.
//   - Composer to host: Config.Send is a synchronous gate consulted on every
//     send (true clears the content, false keeps it) and Config.NotifyKeyDown
//     is told about every key press without ever blocking the composer.
//
// A Composer is not safe for concurrent use. It is owned by one goroutine
// (the bubbletea update loop or a line-mode loop); only the Channel may be
// used from other goroutines.
//
// # Usage
//
//	c := composer.New(composer.Config{
//	    SetChannel: func(ch *composer.Channel) { host.channel = ch },
//	    Send:       func(value string) bool { return value != "fail" },
//	    Mentions:   provider,
//	})
//	if err := c.Mount(); err != nil { ... }
//
//	host.channel.InsertText("🎉")
//	host.channel.Send()
//
//	for cmd, ok := c.Channel().TryNext(); ok; cmd, ok = c.Channel().TryNext() {
//	    c.Apply(cmd)
//	}
package composer
