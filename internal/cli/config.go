// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The "config" command.
//
// Command: config
// Short:   Show or change configuration
//
// Examples:
//   composer config                              Show effective configuration
//   composer config path                         Show config file location
//   composer config get drafts.backend           Print one value
//   composer config set outbox.sink kafka        Change one value and save

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/composer-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	return handleConfig(os.Stdout, args)
}

func handleConfig(w io.Writer, args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(w, args)
	case "path":
		return handleConfigPath(w, args)
	case "get":
		return handleConfigGet(w, args)
	case "set":
		return handleConfigSet(w, args)
	default:
		return NewValidationError("config subcommand", args.Subcommand, "expected show, path, get or set")
	}
}

// configPath is the file config set writes to.
func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// loadForEdit loads the config file without command-line overrides, so that
// config set never persists a one-off flag.
func loadForEdit(args Args) (*config.Config, string, error) {
	path, err := configPath(args)
	if err != nil {
		return nil, "", err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return config.Default(), path, nil
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func handleConfigShow(w io.Writer, args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	path, _ := configPath(args)

	if args.JSON {
		values := make(map[string]interface{})
		for _, key := range config.GetAllKeys() {
			v, err := cfg.Get(key)
			if err != nil {
				return err
			}
			values[key] = maskIfSecret(key, v)
		}
		return NewJSONResponse("config show", map[string]interface{}{
			"config_path": path,
			"values":      values,
		}).Write(w)
	}

	fmt.Fprintln(w, TitleStyle.Render("Composer Configuration"))
	fmt.Fprintf(w, "%s%s\n", RenderLabel("config file"), DimStyle.Render(path))
	fmt.Fprintln(w, RenderSeparator())

	section := ""
	for _, key := range config.GetAllKeys() {
		if head, _, ok := strings.Cut(key, "."); ok && head != section {
			section = head
			fmt.Fprintf(w, "\n[%s]\n", section)
		}
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s%s\n", RenderLabel(key), ValueStyle.Render(fmt.Sprint(maskIfSecret(key, v))))
	}
	return nil
}

func handleConfigPath(w io.Writer, args Args) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if args.JSON {
		return NewJSONResponse("config path", ConfigPathData{Path: path, Exists: exists}).Write(w)
	}
	fmt.Fprintln(w, path)
	if !exists && !args.Quiet {
		fmt.Fprintln(w, DimStyle.Render("(not created yet; defaults are in use)"))
	}
	return nil
}

func handleConfigGet(w io.Writer, args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "composer config get drafts.backend")
	}
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	v, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return &NotFoundError{Resource: "config key", ID: args.ConfigKey}
	}
	v = maskIfSecret(args.ConfigKey, v)

	if args.JSON {
		return NewJSONResponse("config get", ConfigValueData{Key: args.ConfigKey, Value: v}).Write(w)
	}
	fmt.Fprintln(w, formatValue(v))
	return nil
}

func handleConfigSet(w io.Writer, args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "composer config set outbox.sink kafka")
	}
	cfg, path, err := loadForEdit(args)
	if err != nil {
		return err
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewCommandError("config", "set", "cannot set "+args.ConfigKey, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "set", "cannot save "+path, err)
	}

	v, _ := cfg.Get(args.ConfigKey)
	v = maskIfSecret(args.ConfigKey, v)
	if args.JSON {
		return NewJSONResponse("config set", ConfigValueData{Key: args.ConfigKey, Value: v, Path: path}).Write(w)
	}
	if !args.Quiet {
		fmt.Fprintf(w, "%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, formatValue(v))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// maskIfSecret hides password values.
func maskIfSecret(key string, value interface{}) interface{} {
	if !strings.Contains(strings.ToLower(key), "password") {
		return value
	}
	if s, ok := value.(string); ok && s == "" {
		return "(not set)"
	}
	return "[REDACTED]"
}

func formatValue(v interface{}) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ",")
	}
	return fmt.Sprint(v)
}
