// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opts

import (
	"log/slog"
	"testing"

	"github.com/z5labs/opts/key"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Get(t *testing.T) {
	t.Run("will return the stored value", func(t *testing.T) {
		t.Run("if the key is present", func(t *testing.T) {
			o := Must(Merge(Map{"value": 42, "greeting": "hello"}))

			v, err := o.Get("value")
			require.Nil(t, err)
			require.Equal(t, 42, v)

			v, err = o.Get("greeting")
			require.Nil(t, err)
			require.Equal(t, "hello", v)
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the key is absent", func(t *testing.T) {
			o := Must(Merge(Map{"value": 42}))

			_, err := o.Get("greeting")

			var kerr KeyNotFoundError
			require.ErrorAs(t, err, &kerr)
			require.Equal(t, "greeting", kerr.Key)
			require.NotEmpty(t, kerr.Error())
		})

		t.Run("if the options are the zero value", func(t *testing.T) {
			var o Options

			_, err := o.Get("anything")

			var kerr KeyNotFoundError
			require.ErrorAs(t, err, &kerr)
		})
	})
}

func TestOptions_Lookup(t *testing.T) {
	nested := Must(Merge(Map{
		"server": Map{
			"port": 8080,
			"tls": Map{
				"enabled": true,
			},
		},
		"debug": false,
	}))

	t.Run("will return the stored value", func(t *testing.T) {
		testCases := []struct {
			Name     string
			Key      key.Keyer
			Expected any
		}{
			{
				Name:     "single name",
				Key:      key.Name("debug"),
				Expected: false,
			},
			{
				Name:     "chain one level down",
				Key:      key.Names("server", "port"),
				Expected: 8080,
			},
			{
				Name:     "chain two levels down",
				Key:      key.Names("server", "tls", "enabled"),
				Expected: true,
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				v, err := nested.Lookup(testCase.Key)
				require.Nil(t, err)
				require.Equal(t, testCase.Expected, v)
			})
		}
	})

	t.Run("will return an error", func(t *testing.T) {
		testCases := []struct {
			Name string
			Key  key.Keyer
		}{
			{
				Name: "unknown name",
				Key:  key.Name("nope"),
			},
			{
				Name: "chain through a missing key",
				Key:  key.Names("server", "nope"),
			},
			{
				Name: "chain through a scalar",
				Key:  key.Names("debug", "deeper"),
			},
			{
				Name: "nil key",
				Key:  nil,
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				_, err := nested.Lookup(testCase.Key)

				var kerr KeyNotFoundError
				require.ErrorAs(t, err, &kerr)
			})
		}
	})
}

func TestOptions_Set(t *testing.T) {
	t.Run("will fail with ImmutableError", func(t *testing.T) {
		t.Run("and leave the options observably unchanged", func(t *testing.T) {
			o := Must(Merge(Map{"value": 42, "greeting": "hello"}))

			err := o.Set(key.Name("value"), 3)

			var ierr ImmutableError
			require.ErrorAs(t, err, &ierr)
			require.Equal(t, "set", ierr.Op)
			require.Equal(t, "value", ierr.Key)
			require.NotEmpty(t, ierr.Error())

			v, err := o.Get("value")
			require.Nil(t, err)
			require.Equal(t, 42, v)
			require.Equal(t, []string{"greeting", "value"}, o.Keys())
		})

		t.Run("when setting a key it does not contain", func(t *testing.T) {
			o := Must(Merge(Map{"value": 42}))

			err := o.Set(key.Name("greeting"), "hello")

			var ierr ImmutableError
			require.ErrorAs(t, err, &ierr)
			require.Equal(t, 1, o.Len())
		})

		t.Run("when used through the Store interface", func(t *testing.T) {
			var store Store = Must(Merge(Map{"value": 42}))

			err := store.Set(key.Names("nested", "value"), 3)

			var ierr ImmutableError
			require.ErrorAs(t, err, &ierr)
		})
	})
}

func TestOptions_Delete(t *testing.T) {
	t.Run("will fail with ImmutableError", func(t *testing.T) {
		t.Run("and leave the options observably unchanged", func(t *testing.T) {
			o := Must(Merge(Map{"value": 42}))

			err := o.Delete("value")

			var ierr ImmutableError
			require.ErrorAs(t, err, &ierr)
			require.Equal(t, "delete", ierr.Op)
			require.Equal(t, "value", ierr.Key)
			require.True(t, o.Contains("value"))
		})
	})
}

func TestOptions_Contains(t *testing.T) {
	o := Must(Merge(Map{"value": 42}))

	assert.True(t, o.Contains("value"))
	assert.False(t, o.Contains("greeting"))
}

func TestOptions_Keys(t *testing.T) {
	t.Run("will return keys in display order", func(t *testing.T) {
		o := Must(Merge(Map{"value": 42}, Map{"greeting": "hello"}, Map{"alpha": 0.007297}))

		assert.Equal(t, []string{"value", "greeting", "alpha"}, o.Keys())
	})

	t.Run("will return an independent copy", func(t *testing.T) {
		o := Must(Merge(Map{"value": 42, "greeting": "hello"}))

		keys := o.Keys()
		keys[0] = "mutated"

		assert.Equal(t, []string{"greeting", "value"}, o.Keys())
	})
}

func TestOptions_All(t *testing.T) {
	t.Run("will iterate pairs in display order", func(t *testing.T) {
		o := Must(Merge(Map{"b": 2}, Map{"a": 1}, Map{"c": 3}))

		var keys []string
		var values []any
		for k, v := range o.All() {
			keys = append(keys, k)
			values = append(values, v)
		}

		assert.Equal(t, []string{"b", "a", "c"}, keys)
		assert.Equal(t, []any{2, 1, 3}, values)
	})

	t.Run("will support early termination", func(t *testing.T) {
		o := Must(Merge(Map{"a": 1, "b": 2, "c": 3}))

		n := 0
		for range o.All() {
			n += 1
			break
		}

		assert.Equal(t, 1, n)
	})
}

func TestOptions_ToMap(t *testing.T) {
	t.Run("will copy the top level shallowly", func(t *testing.T) {
		nested := Must(Merge(Map{"pi": 3.14}))
		o := Must(Merge(Map{"value": 42}, Overrides{"nested": nested}))

		m := o.ToMap()

		require.Equal(t, 42, m["value"])
		got, ok := m["nested"].(Options)
		require.True(t, ok)
		require.True(t, got.Equal(nested))
	})

	t.Run("will not let mutation of the copy affect the original", func(t *testing.T) {
		o := Must(Merge(Map{"value": 42, "greeting": "hello"}))

		m := o.ToMap()
		m["value"] = 3
		delete(m, "greeting")
		m["extra"] = true

		v, err := o.Get("value")
		require.Nil(t, err)
		require.Equal(t, 42, v)
		require.True(t, o.Contains("greeting"))
		require.False(t, o.Contains("extra"))
	})
}

func TestOptions_Equal(t *testing.T) {
	testCases := []struct {
		Name     string
		A        Options
		B        Options
		Expected bool
	}{
		{
			Name:     "empty options",
			A:        Options{},
			B:        Must(Merge()),
			Expected: true,
		},
		{
			Name:     "same pairs",
			A:        Must(Merge(Map{"value": 42, "greeting": "hello"})),
			B:        Must(Merge(Map{"value": 42, "greeting": "hello"})),
			Expected: true,
		},
		{
			Name:     "same pairs in different display order",
			A:        Must(Merge(Map{"a": 1}, Map{"b": 2})),
			B:        Must(Merge(Map{"b": 2}, Map{"a": 1})),
			Expected: true,
		},
		{
			Name:     "same nested pairs",
			A:        Must(Merge(Map{"nested": Map{"pi": 3.14}})),
			B:        Must(Merge(Map{"nested": map[string]any{"pi": 3.14}})),
			Expected: true,
		},
		{
			Name:     "differing values",
			A:        Must(Merge(Map{"value": 42})),
			B:        Must(Merge(Map{"value": 3})),
			Expected: false,
		},
		{
			Name:     "differing key sets",
			A:        Must(Merge(Map{"value": 42})),
			B:        Must(Merge(Map{"value": 42, "greeting": "hello"})),
			Expected: false,
		},
		{
			Name:     "nested options versus scalar",
			A:        Must(Merge(Map{"nested": Map{"pi": 3.14}})),
			B:        Must(Merge(Map{"nested": 3.14})),
			Expected: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			assert.Equal(t, testCase.Expected, testCase.A.Equal(testCase.B))
			assert.Equal(t, testCase.Expected, testCase.B.Equal(testCase.A))
		})
	}
}

func TestOptions_String(t *testing.T) {
	o := Must(Merge(Map{"value": 42, "greeting": "hello"}))

	assert.Equal(t, "Options(greeting=hello, value=42)", o.String())
}

func TestOptions_LogValue(t *testing.T) {
	t.Run("will render pairs as a group", func(t *testing.T) {
		o := Must(Merge(Map{"greeting": "hello", "nested": Map{"pi": 3.14}}))

		v := o.LogValue()
		require.Equal(t, slog.KindGroup, v.Kind())

		attrs := v.Group()
		require.Len(t, attrs, 2)
		require.Equal(t, "greeting", attrs[0].Key)
		require.Equal(t, "hello", attrs[0].Value.String())
		require.Equal(t, "nested", attrs[1].Key)
		require.Equal(t, slog.KindGroup, attrs[1].Value.Kind())
	})
}
