// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opts

import (
	"fmt"
	"slices"

	"github.com/z5labs/opts/key"
)

// Store represents a general key value structure.
type Store interface {
	Set(key.Keyer, any) error
}

// Source defines valid option sources as those who can serialize
// themselves into a key value like structure.
type Source interface {
	Apply(Store) error
}

// Replacer is an optional upgrade of the Store interface. Replace
// overwrites the value stored under a key wholesale instead of deep
// merging mapping values together.
type Replacer interface {
	Replace(key.Keyer, any) error
}

// Merge builds a new Options from the given sources.
//
// Sources are applied in the order given and later sources win over
// earlier ones, key by key. When the existing and the incoming value
// under a key are both mapping-like (a plain map or an Options), the
// two are merged recursively so sub-keys present on only one side
// survive; in every other case the incoming value simply replaces
// the existing one. A scalar colliding with a mapping is not an
// error, the later value wins silently.
//
// The sources used to build the result are never modified and remain
// valid afterwards; in particular an Options source shares its nested
// values with the result wherever they were left untouched.
func Merge(srcs ...Source) (Options, error) {
	b := newBuilder()
	for _, src := range srcs {
		if src == nil {
			continue
		}
		err := src.Apply(b)
		if err != nil {
			return Options{}, err
		}
	}
	return b.freeze(), nil
}

// Must panics if err is non-nil. It allows construction of static
// option literals to be inlined:
//
//	defaults := opts.Must(opts.Merge(opts.Map{"port": 8080}))
func Must(o Options, err error) Options {
	if err != nil {
		panic(err)
	}
	return o
}

// Map is an ordinary map[string]any which implements the Source
// interface. Nested map[string]any values become nested Options.
// Since plain maps carry no ordering, keys are contributed in
// sorted order.
type Map map[string]any

// Apply implements the Source interface.
func (m Map) Apply(store Store) error {
	for _, k := range sortedKeys(m) {
		err := store.Set(key.Name(k), m[k])
		if err != nil {
			return err
		}
	}
	return nil
}

// Overrides is the trailing, highest-priority source of a merge. It
// behaves like Map with one exception: a value which is already an
// Options replaces the existing entry wholesale instead of deep
// merging into it. Plain map values still deep merge. This is the
// intended way to force a fully specified nested section onto a set
// of defaults.
type Overrides map[string]any

// Apply implements the Source interface.
func (m Overrides) Apply(store Store) error {
	replacer, canReplace := store.(Replacer)
	for _, k := range sortedKeys(m) {
		v := m[k]
		if _, ok := v.(Options); ok && canReplace {
			err := replacer.Replace(key.Name(k), v)
			if err != nil {
				return err
			}
			continue
		}
		err := store.Set(key.Name(k), v)
		if err != nil {
			return err
		}
	}
	return nil
}

// Apply implements the Source interface. It allows an Options to
// seed another merge.
func (o Options) Apply(store Store) error {
	for _, k := range o.keys {
		err := store.Set(key.Name(k), o.values[k])
		if err != nil {
			return err
		}
	}
	return nil
}

// UnknownKeyerError occurs when a source tries setting an option
// value with an unsupported key.Keyer implementation.
type UnknownKeyerError struct {
	Key key.Keyer
}

// Error implements the error interface.
func (e UnknownKeyerError) Error() string {
	if e.Key == nil {
		return "source tried setting option value with a nil key"
	}
	return fmt.Sprintf("source tried setting option value with unknown key.Keyer: %s", e.Key.Key())
}

// EmptyKeyChainError occurs when a source tries setting an option
// value with a zero length key.Chain.
type EmptyKeyChainError struct {
	Value any
}

// Error implements the error interface.
func (e EmptyKeyChainError) Error() string {
	return fmt.Sprintf("attempted to set value with an empty key chain: %v", e.Value)
}

// builder is the mutable accumulator behind Merge. Its values are
// scalars, frozen Options or nested *builders; plain maps are
// normalized on the way in.
type builder struct {
	keys   []string
	values map[string]any
}

func newBuilder() *builder {
	return &builder{values: make(map[string]any)}
}

// builderFrom seeds a builder with the pairs of a frozen Options.
// The copy is shallow so untouched nested values stay shared.
func builderFrom(o Options) *builder {
	b := &builder{
		keys:   slices.Clone(o.keys),
		values: make(map[string]any, len(o.keys)),
	}
	for k, v := range o.values {
		b.values[k] = v
	}
	return b
}

// Set implements the Store interface.
func (b *builder) Set(k key.Keyer, v any) error {
	switch x := k.(type) {
	case key.Name:
		b.merge(string(x), v)
		return nil
	case key.Chain:
		return b.setChain(x, v)
	default:
		return UnknownKeyerError{Key: k}
	}
}

// Replace implements the Replacer interface.
func (b *builder) Replace(k key.Keyer, v any) error {
	switch x := k.(type) {
	case key.Name:
		b.put(string(x), normalize(v))
		return nil
	case key.Chain:
		return b.replaceChain(x, v)
	default:
		return UnknownKeyerError{Key: k}
	}
}

// merge applies the deep merge rule for a single key/value pair.
func (b *builder) merge(k string, v any) {
	old, ok := b.values[k]
	if !ok || !isMapping(old) || !isMapping(v) {
		b.put(k, normalize(v))
		return
	}

	sub := asBuilder(old)
	forEachPair(v, func(sk string, sv any) {
		sub.merge(sk, sv)
	})
	b.values[k] = sub
}

func (b *builder) setChain(chain key.Chain, v any) error {
	if len(chain) == 0 {
		return EmptyKeyChainError{Value: v}
	}
	if len(chain) == 1 {
		return b.Set(chain[0], v)
	}
	return b.descend(chain[0]).setChain(chain[1:], v)
}

func (b *builder) replaceChain(chain key.Chain, v any) error {
	if len(chain) == 0 {
		return EmptyKeyChainError{Value: v}
	}
	if len(chain) == 1 {
		return b.Replace(chain[0], v)
	}
	return b.descend(chain[0]).replaceChain(chain[1:], v)
}

// descend returns the nested builder stored under k, converting a
// frozen Options in place or silently displacing a scalar.
func (b *builder) descend(k key.Keyer) *builder {
	name := k.Key()
	var sub *builder
	switch old := b.values[name].(type) {
	case *builder:
		sub = old
	case Options:
		sub = builderFrom(old)
	default:
		sub = newBuilder()
	}
	b.put(name, sub)
	return sub
}

// put stores v under k, appending k to the display order on first
// sight and keeping its position on overwrite.
func (b *builder) put(k string, v any) {
	if _, ok := b.values[k]; !ok {
		b.keys = append(b.keys, k)
	}
	b.values[k] = v
}

func (b *builder) freeze() Options {
	values := make(map[string]any, len(b.keys))
	for k, v := range b.values {
		if sub, ok := v.(*builder); ok {
			values[k] = sub.freeze()
			continue
		}
		values[k] = v
	}
	return Options{
		keys:   slices.Clone(b.keys),
		values: values,
	}
}

func asBuilder(v any) *builder {
	switch x := v.(type) {
	case *builder:
		return x
	case Options:
		return builderFrom(x)
	default:
		// unreachable: merge only calls asBuilder on mapping
		// values and builder values are normalized on insert
		return newBuilder()
	}
}

// normalize recursively converts plain maps into frozen Options so
// nesting inside a result is always uniform.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return fromMap(x)
	case Map:
		return fromMap(x)
	case Overrides:
		return fromMap(x)
	default:
		return v
	}
}

func fromMap(m map[string]any) Options {
	keys := sortedKeys(m)
	values := make(map[string]any, len(keys))
	for _, k := range keys {
		values[k] = normalize(m[k])
	}
	return Options{keys: keys, values: values}
}

// isMapping reports whether v participates in deep merging.
func isMapping(v any) bool {
	switch v.(type) {
	case map[string]any, Map, Overrides, Options, *builder:
		return true
	default:
		return false
	}
}

// forEachPair visits the pairs of a mapping value: frozen Options in
// display order, plain maps in sorted key order.
func forEachPair(v any, visit func(string, any)) {
	switch x := v.(type) {
	case Options:
		for _, k := range x.keys {
			visit(k, x.values[k])
		}
	case *builder:
		for _, k := range x.keys {
			visit(k, x.values[k])
		}
	case map[string]any:
		for _, k := range sortedKeys(x) {
			visit(k, x[k])
		}
	case Map:
		for _, k := range sortedKeys(x) {
			visit(k, x[k])
		}
	case Overrides:
		for _, k := range sortedKeys(x) {
			visit(k, x[k])
		}
	}
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
