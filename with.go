// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opts

import (
	"slices"

	"github.com/z5labs/opts/key"
)

// WithValues returns a copy of o with values overridden from the
// given sources, scanned left to right with later sources winning.
//
// The result always has exactly the keys of o: keys appearing in a
// source but not in o are silently ignored. This is the mechanism by
// which a component filters a larger shared settings bag down to
// only the options it declares it understands.
//
// Where the default value under a key is itself an Options, only
// mapping-like source values apply and they recurse one level down;
// a scalar found in a source under such a key is dropped silently.
// Where the default is a scalar, the last source defining the key
// provides the new value verbatim.
func (o Options) WithValues(srcs ...Source) (Options, error) {
	t := &taker{base: o}
	for _, src := range srcs {
		if src == nil {
			continue
		}
		err := src.Apply(t)
		if err != nil {
			return Options{}, err
		}
	}
	return t.freeze(), nil
}

// Without returns a copy of o with the named top-level keys removed.
// Names which are not keys of o are ignored. Only top-level keys can
// be removed; removing a nested key means rebuilding the nested
// Options and merging it back in.
func (o Options) Without(names ...string) Options {
	if len(names) == 0 {
		return o
	}

	keys := make([]string, 0, len(o.keys))
	values := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		if slices.Contains(names, k) {
			continue
		}
		keys = append(keys, k)
		values[k] = o.values[k]
	}
	return Options{keys: keys, values: values}
}

// taker is the accumulator behind WithValues. It is restricted to
// the key set of its base Options and only records the keys a source
// actually touched, so untouched subtrees stay shared with the base.
type taker struct {
	base    Options
	changed map[string]any
}

// Set implements the Store interface.
func (t *taker) Set(k key.Keyer, v any) error {
	switch x := k.(type) {
	case key.Name:
		t.take(string(x), v)
		return nil
	case key.Chain:
		return t.takeChain(x, v)
	default:
		return UnknownKeyerError{Key: k}
	}
}

func (t *taker) take(k string, v any) {
	base, ok := t.base.values[k]
	if !ok {
		return
	}

	nested, isNested := base.(Options)
	if !isNested {
		t.put(k, normalize(v))
		return
	}
	if !isMapping(v) {
		// scalar override under a nested default is inapplicable
		return
	}
	sub := t.sub(k, nested)
	forEachPair(v, func(sk string, sv any) {
		sub.take(sk, sv)
	})
}

func (t *taker) takeChain(chain key.Chain, v any) error {
	if len(chain) == 0 {
		return EmptyKeyChainError{Value: v}
	}
	if len(chain) == 1 {
		return t.Set(chain[0], v)
	}

	k := chain[0].Key()
	base, ok := t.base.values[k]
	if !ok {
		return nil
	}
	nested, isNested := base.(Options)
	if !isNested {
		return nil
	}
	return t.sub(k, nested).takeChain(chain[1:], v)
}

// sub returns the nested taker recorded under k, creating it on
// first touch.
func (t *taker) sub(k string, base Options) *taker {
	if sub, ok := t.changed[k].(*taker); ok {
		return sub
	}
	sub := &taker{base: base}
	t.put(k, sub)
	return sub
}

func (t *taker) put(k string, v any) {
	if t.changed == nil {
		t.changed = make(map[string]any)
	}
	t.changed[k] = v
}

func (t *taker) freeze() Options {
	if len(t.changed) == 0 {
		return t.base
	}

	values := make(map[string]any, len(t.base.keys))
	for _, k := range t.base.keys {
		v, ok := t.changed[k]
		if !ok {
			values[k] = t.base.values[k]
			continue
		}
		if sub, isSub := v.(*taker); isSub {
			values[k] = sub.freeze()
			continue
		}
		values[k] = v
	}
	return Options{
		keys:   slices.Clone(t.base.keys),
		values: values,
	}
}
