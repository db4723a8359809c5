// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides strongly typed keys for addressing option values.
package key

import (
	"strings"
)

// Keyer is a common interface all option key types must implement.
type Keyer interface {
	Key() string
}

// Name represents a single top-level key.
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}

// Chain represents a path of keys through nested options.
type Chain []Keyer

// Names is a convenience constructor for building a Chain
// out of plain strings.
func Names(names ...string) Chain {
	chain := make(Chain, len(names))
	for i, name := range names {
		chain[i] = Name(name)
	}
	return chain
}

// Key implements the [Keyer] interface. The chain elements
// are joined with "." purely for display purposes.
func (k Chain) Key() string {
	ss := make([]string, len(k))
	for i := range len(k) {
		ss[i] = k[i].Key()
	}
	return strings.Join(ss, ".")
}
