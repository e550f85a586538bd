// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold lowercases s for case-insensitive comparison of display names.
// A Caser is not safe for concurrent use, so one is created per call.
func Fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// HasFoldedPrefix reports whether name starts with query, ignoring case.
// An empty query matches every name.
func HasFoldedPrefix(name, query string) bool {
	if query == "" {
		return true
	}
	return strings.HasPrefix(Fold(name), Fold(query))
}
