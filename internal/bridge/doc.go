// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bridge exposes a composer's command channel over websockets.
//
// Endpoints:
//   - GET /ws     - websocket; inbound command frames, outbound event frames
//   - GET /health - health check
//
// Inbound frames carry a command:
//
//	{"type":"INSERT_TEXT","text":"🎉"}
//	{"type":"SEND"}
//
// Outbound frames report what the composer did with them and are broadcast
// to every client:
//
//	{"type":"sent","space":"1","value":"🎉"}
//	{"type":"rejected","space":"1","value":"🎉"}
//
// Each connection is rate limited; frames over the limit are answered with an
// "error" frame to that client only.
package bridge
