// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package opts provides an immutable, mergeable options value for
// composing configuration across independent components.
//
// The package is built around three core abstractions:
//
//   - Options: an immutable, ordered key/value mapping with recursive nesting
//   - Source: anything which can contribute key/value pairs to a merge
//   - Store: the key/value sink a Source applies itself to
//
// # Declaring defaults
//
// Each component declares the options it understands as an Options
// literal:
//
//	var defaults = opts.Must(opts.Merge(opts.Map{
//	    "addr":    ":8080",
//	    "timeout": "5s",
//	    "tls": opts.Map{
//	        "enabled": false,
//	    },
//	}))
//
// # Merging
//
// Merge unions any number of sources, later sources winning key by
// key. Mapping values on both sides of a collision deep merge, so
// overriding one nested key leaves its siblings intact:
//
//	o, err := opts.Merge(
//	    defaults,
//	    opts.FromYaml(opts.NewFileReader(os.DirFS("/etc/myapp"), "config.yaml")),
//	    opts.FromEnvPrefix("MYAPP_"),
//	    opts.Overrides{"addr": *addrFlag},
//	)
//
// An Overrides source placed last always wins; unlike positional
// sources, an Options-typed value inside an Overrides replaces the
// existing nested value wholesale instead of merging into it.
//
// # Filtering shared settings
//
// WithValues extracts from a larger settings bag only the keys a
// component declared, recursing through nested defaults and ignoring
// everything else:
//
//	mine, err := defaults.WithValues(shared)
//
// # Sharing
//
// An Options can never change after construction, so instances may
// be aliased across any number of goroutines without coordination.
// Derived instances (Merge, WithValues, Without) share the untouched
// parts of their inputs instead of copying them.
package opts
