// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package entity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for seed files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported seed file format")

// seedFile is the on-disk shape of a seed file. TOML needs a named table array,
// so all formats share the top-level "entities" key.
type seedFile struct {
	Entities []Entity `json:"entities" toml:"entities" yaml:"entities"`
}

// LoadFile reads raw (unsanitized) entities from a .toml, .json, .yaml or .yml file.
func LoadFile(path string) ([]Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes seed data in the format named by ext (".toml", ".json", ".yaml", ".yml").
func Parse(ext string, data []byte) ([]Entity, error) {
	var seed seedFile

	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.Decode(string(data), &seed); err != nil {
			return nil, fmt.Errorf("decode TOML seed: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("decode JSON seed: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &seed); err != nil {
			return nil, fmt.Errorf("decode YAML seed: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return seed.Entities, nil
}
