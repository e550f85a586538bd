// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package composer

import (
	"unicode"
)

// =============================================================================
// TEXT BUFFER
// =============================================================================

// MentionSpan marks an accepted mention inside the content. Start and End are
// rune offsets, End exclusive.
type MentionSpan struct {
	EntityID string
	Start    int
	End      int
}

// buffer is the editable content: runes, a single cursor and the mention
// spans that are still intact.
type buffer struct {
	text   []rune
	cursor int
	spans  []MentionSpan
}

func (b *buffer) String() string {
	return string(b.text)
}

func (b *buffer) Len() int {
	return len(b.text)
}

// set replaces the content and moves the cursor to the end.
func (b *buffer) set(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
	b.spans = nil
}

func (b *buffer) reset() {
	b.set("")
}

// insert inserts s at the cursor and advances the cursor past it.
func (b *buffer) insert(s string) {
	r := []rune(s)
	if len(r) == 0 {
		return
	}
	b.replace(b.cursor, b.cursor, r)
}

// replace substitutes text[start:end] with r and leaves the cursor after r.
// Spans overlapping the replaced range are dropped and later spans shift.
func (b *buffer) replace(start, end int, r []rune) {
	start = clamp(start, 0, len(b.text))
	end = clamp(end, start, len(b.text))

	out := make([]rune, 0, len(b.text)-(end-start)+len(r))
	out = append(out, b.text[:start]...)
	out = append(out, r...)
	out = append(out, b.text[end:]...)
	b.text = out
	b.cursor = start + len(r)

	delta := len(r) - (end - start)
	kept := b.spans[:0]
	for _, s := range b.spans {
		switch {
		case s.End <= start:
			kept = append(kept, s)
		case s.Start >= end:
			s.Start += delta
			s.End += delta
			kept = append(kept, s)
		}
	}
	b.spans = kept
}

func (b *buffer) backspace() {
	if b.cursor == 0 {
		return
	}
	b.replace(b.cursor-1, b.cursor, nil)
}

func (b *buffer) deleteForward() {
	if b.cursor >= len(b.text) {
		return
	}
	at := b.cursor
	b.replace(at, at+1, nil)
	b.cursor = at
}

// deleteWordBackward removes the word before the cursor and any spaces after it.
func (b *buffer) deleteWordBackward() {
	start := b.cursor
	for start > 0 && unicode.IsSpace(b.text[start-1]) {
		start--
	}
	for start > 0 && !unicode.IsSpace(b.text[start-1]) {
		start--
	}
	b.replace(start, b.cursor, nil)
}

func (b *buffer) left() {
	if b.cursor > 0 {
		b.cursor--
	}
}

func (b *buffer) right() {
	if b.cursor < len(b.text) {
		b.cursor++
	}
}

func (b *buffer) home() {
	b.cursor = 0
}

func (b *buffer) end() {
	b.cursor = len(b.text)
}

// addSpan records a mention span.
func (b *buffer) addSpan(s MentionSpan) {
	b.spans = append(b.spans, s)
}

// mentionToken returns the "@query" token ending at the cursor. start is the
// rune offset of "@". The "@" must begin the content or follow whitespace.
func (b *buffer) mentionToken() (query string, start int, ok bool) {
	start = b.cursor
	for start > 0 && !isTokenBoundary(b.text[start-1]) {
		start--
	}
	if start >= len(b.text) || b.text[start] != '@' || start == b.cursor {
		return "", 0, false
	}
	if b.insideSpan(start) {
		return "", 0, false
	}
	return string(b.text[start+1 : b.cursor]), start, true
}

// tokenEnd returns the end of the token that contains the cursor.
func (b *buffer) tokenEnd() int {
	end := b.cursor
	for end < len(b.text) && !isTokenBoundary(b.text[end]) {
		end++
	}
	return end
}

func (b *buffer) insideSpan(at int) bool {
	for _, s := range b.spans {
		if at >= s.Start && at < s.End {
			return true
		}
	}
	return false
}

func isTokenBoundary(r rune) bool {
	return unicode.IsSpace(r)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
