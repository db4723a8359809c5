// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opts

import (
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/z5labs/opts/key"
)

// Options is an immutable, ordered mapping from string keys to values.
//
// A value is either an opaque scalar or another Options (plain
// map[string]any values are normalized into nested Options during
// construction). Once constructed the key set and every reachable
// value are fixed, so an Options may be freely aliased across
// goroutines without any synchronization.
//
// The zero value is an empty Options.
type Options struct {
	keys   []string
	values map[string]any
}

// KeyNotFoundError occurs when looking up a key which is
// not present at the queried level.
type KeyNotFoundError struct {
	Key string
}

// Error implements the error interface.
func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %s", e.Key)
}

// ImmutableError occurs on any attempt to modify an existing Options.
type ImmutableError struct {
	Op  string
	Key string
}

// Error implements the error interface.
func (e ImmutableError) Error() string {
	return fmt.Sprintf("options are immutable: cannot %s key: %s", e.Op, e.Key)
}

// Get returns the value stored under name. A KeyNotFoundError is
// returned if name is not a key of o.
func (o Options) Get(name string) (any, error) {
	v, ok := o.values[name]
	if !ok {
		return nil, KeyNotFoundError{Key: name}
	}
	return v, nil
}

// Lookup resolves k against o. A key.Name behaves exactly like Get,
// while a key.Chain descends through nested Options one element at
// a time. A KeyNotFoundError is returned if any element of the path
// is missing or if the path descends into a non-Options value.
func (o Options) Lookup(k key.Keyer) (any, error) {
	switch x := k.(type) {
	case key.Chain:
		var v any = o
		for _, sub := range x {
			nested, ok := v.(Options)
			if !ok {
				return nil, KeyNotFoundError{Key: x.Key()}
			}
			var err error
			v, err = nested.Lookup(sub)
			if err != nil {
				return nil, KeyNotFoundError{Key: x.Key()}
			}
		}
		return v, nil
	case nil:
		return nil, KeyNotFoundError{}
	default:
		return o.Get(x.Key())
	}
}

// Contains reports whether name is a key of o.
func (o Options) Contains(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Len returns the number of top-level keys.
func (o Options) Len() int {
	return len(o.keys)
}

// Keys returns a copy of the top-level keys in display order.
func (o Options) Keys() []string {
	return slices.Clone(o.keys)
}

// All returns an iterator over the key/value pairs of o in
// display order.
func (o Options) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range o.keys {
			if !yield(k, o.values[k]) {
				return
			}
		}
	}
}

// ToMap returns a mutable plain map holding the top-level key/value
// pairs of o. The copy is shallow: nested Options values remain
// immutable unless the caller converts them in turn. Mutating the
// returned map never affects o.
func (o Options) ToMap() map[string]any {
	m := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		m[k] = o.values[k]
	}
	return m
}

// Set always fails with an ImmutableError.
//
// It exists so that Options implements the Store interface: an
// Options can be handed to code which writes to a Store and the
// write fails loudly instead of silently diverging from the views
// held by other owners of the same instance.
func (o Options) Set(k key.Keyer, _ any) error {
	name := ""
	if k != nil {
		name = k.Key()
	}
	return ImmutableError{Op: "set", Key: name}
}

// Delete always fails with an ImmutableError.
func (o Options) Delete(name string) error {
	return ImmutableError{Op: "delete", Key: name}
}

// Equal reports whether o and other hold the same key/value pairs,
// comparing nested Options recursively. Display order is ignored.
func (o Options) Equal(other Options) bool {
	if len(o.keys) != len(other.keys) {
		return false
	}
	for k, v := range o.values {
		ov, ok := other.values[k]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	ao, aok := a.(Options)
	bo, bok := b.(Options)
	if aok || bok {
		return aok && bok && ao.Equal(bo)
	}
	return reflect.DeepEqual(a, b)
}

// String implements the fmt.Stringer interface.
func (o Options) String() string {
	var sb strings.Builder
	sb.WriteString("Options(")
	for i, k := range o.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", k, o.values[k])
	}
	sb.WriteString(")")
	return sb.String()
}

// LogValue implements the slog.LogValuer interface. Nested Options
// are rendered as slog groups.
func (o Options) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(o.keys))
	for _, k := range o.keys {
		v := o.values[k]
		if nested, ok := v.(Options); ok {
			attrs = append(attrs, slog.Attr{Key: k, Value: nested.LogValue()})
			continue
		}
		attrs = append(attrs, slog.Any(k, v))
	}
	return slog.GroupValue(attrs...)
}
