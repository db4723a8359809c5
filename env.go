// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opts

import (
	"os"
	"strings"

	"github.com/z5labs/opts/key"
)

// Env represents a Source where its underlying values are extracted
// from environment variables.
type Env struct {
	environ func() []string
	prefix  string
}

// FromEnv returns a Source which will apply every environment
// variable of the current process as a top-level option.
func FromEnv() Env {
	return Env{environ: os.Environ}
}

// FromEnvPrefix behaves like FromEnv restricted to variables carrying
// the given prefix. The prefix is stripped, names are lowercased and
// "__" separates nested keys, so with prefix "MYAPP_" the variable
// MYAPP_SERVER__PORT=8080 sets port inside the server options.
func FromEnvPrefix(prefix string) Env {
	return Env{environ: os.Environ, prefix: prefix}
}

// Apply implements the Source interface.
func (src Env) Apply(store Store) error {
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		var err error
		if src.prefix == "" {
			err = store.Set(key.Name(k), v)
		} else {
			if !strings.HasPrefix(k, src.prefix) {
				continue
			}
			err = store.Set(envKeyer(strings.TrimPrefix(k, src.prefix)), v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func envKeyer(name string) key.Keyer {
	name = strings.ToLower(name)
	parts := strings.Split(name, "__")
	if len(parts) == 1 {
		return key.Name(name)
	}
	return key.Names(parts...)
}
