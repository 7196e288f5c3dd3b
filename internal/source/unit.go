// Package source models one open Windjammer source file: its stable
// identity, current text, and the version counter the query database keys
// its memoization off of.
package source

import "github.com/google/uuid"

// Unit is a single open source file tracked by a compile session. ID is
// stable for the lifetime of the process (assigned once, on first open);
// Version increments every time SetText installs new content, so
// internal/querydb can treat (ID, Version) as the cache key's input
// identity without re-hashing the text on every lookup.
type Unit struct {
	ID      string
	Path    string
	text    string
	Version int
}

// New opens a unit at path with initial content text, minting a stable id.
func New(path, text string) *Unit {
	return &Unit{ID: uuid.NewString(), Path: path, text: text, Version: 1}
}

// Text returns the unit's current content.
func (u *Unit) Text() string { return u.text }

// SetText installs new content and bumps Version, unless text is identical
// to what is already stored (an editor re-save of unchanged content should
// not invalidate every downstream query).
func (u *Unit) SetText(text string) {
	if text == u.text {
		return
	}
	u.text = text
	u.Version++
}
