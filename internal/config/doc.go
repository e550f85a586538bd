// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for composer.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: main configuration structure
//   - ComposerConfig: initial composer options
//   - MentionsConfig: mention source, seed file and circuit breaker
//   - DraftsConfig: draft backend (memory, sqlite, redis)
//   - OutboxConfig: where accepted messages go (log, kafka)
//   - BridgeConfig: websocket bridge listener
//   - LogConfig: log level and file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (COMPOSER_*)
//   - ~/.composer/config.toml
//   - ~/.composer/config.json
//   - Built-in defaults
//
// COMPOSER_HOME replaces ~/.composer.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	backend := cfg.Drafts.Backend
package config
