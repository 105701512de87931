// FILE: lixenwraith/optmap/codec_test.go
package optmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// TestJSONCodec tests ordered JSON encoding and decoding
func TestJSONCodec(t *testing.T) {
	t.Run("KeyOrderPreserved", func(t *testing.T) {
		input := `{"z":1,"a":{"y":2,"b":3},"l":[{"k":1.5},"s",null,true]}`

		m := New()
		require.NoError(t, json.Unmarshal([]byte(input), m))
		assert.Equal(t, []string{"z", "a", "l"}, m.Keys())
		assert.Equal(t, []string{"y", "b"}, m.GetPath("a").(*Map).Keys())
		assert.Equal(t, int64(1), m.Get("z", nil))

		list := m.Get("l", nil).([]any)
		require.Len(t, list, 4)
		assert.Equal(t, 1.5, list[0].(*Map).Get("k", nil))
		assert.Nil(t, list[2])
		assert.Equal(t, true, list[3])

		out, err := json.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, input, string(out))
	})

	t.Run("NonObject", func(t *testing.T) {
		m := New()
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), m))
		assert.Error(t, json.Unmarshal([]byte(`{"a":`), m))
	})

	t.Run("TrailingData", func(t *testing.T) {
		for _, input := range []string{`{"a":1} garbage`, `{"a":1} {"b":2}`, `{"a":1}]`} {
			m := New().Set("kept", true)
			require.Error(t, m.UnmarshalJSON([]byte(input)), input)
			assert.Equal(t, []string{"kept"}, m.Keys())

			_, err := Parse([]byte(input), FormatJSON)
			assert.Error(t, err, input)
		}

		m, err := Parse([]byte("{\"a\":1}\n  \n"), FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, int64(1), m.Get("a", nil))
	})

	t.Run("FieldsSurviveDecode", func(t *testing.T) {
		m := New().Set("old", 1)
		m.SetAttr("_meta", "x")
		require.NoError(t, json.Unmarshal([]byte(`{"new":2}`), m))

		assert.Equal(t, []string{"new"}, m.Keys())
		v, ok := m.Field("_meta")
		assert.True(t, ok)
		assert.Equal(t, "x", v)
	})
}

// TestYAMLCodec tests ordered YAML encoding and decoding
func TestYAMLCodec(t *testing.T) {
	t.Run("KeyOrderPreserved", func(t *testing.T) {
		m := New().Set("z", 1).Set("a", New().Set("y", 2).Set("b", 3))
		out, err := yaml.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, "z: 1\na:\n    y: 2\n    b: 3\n", string(out))

		back := New()
		require.NoError(t, yaml.Unmarshal(out, back))
		assert.Equal(t, []string{"z", "a"}, back.Keys())
		assert.Equal(t, []string{"y", "b"}, back.GetPath("a").(*Map).Keys())
	})

	t.Run("MergeKeys", func(t *testing.T) {
		input := `
base: &base
  host: localhost
  port: 80
svc:
  <<: *base
  port: 8080
`
		m := New()
		require.NoError(t, yaml.Unmarshal([]byte(input), m))

		assert.Equal(t, "localhost", m.GetPath("svc.host"))
		assert.Equal(t, 8080, m.GetPath("svc.port"))
		assert.Equal(t, 80, m.GetPath("base.port"))

		// Merged values are copies, not the anchored mapping
		m.GetPath("svc").(*Map).Set("host", "changed")
		assert.Equal(t, "localhost", m.GetPath("base.host"))
	})

	t.Run("MergeKeySequence", func(t *testing.T) {
		input := `
a: &a {x: 1}
b: &b {x: 2, y: 2}
c:
  <<: [*a, *b]
`
		m := New()
		require.NoError(t, yaml.Unmarshal([]byte(input), m))
		assert.Equal(t, 1, m.GetPath("c.x"))
		assert.Equal(t, 2, m.GetPath("c.y"))
	})

	t.Run("NonMapping", func(t *testing.T) {
		m := New()
		assert.Error(t, yaml.Unmarshal([]byte("- 1\n- 2\n"), m))
	})
}

// TestTOMLCodec tests decoding from BurntSushi/toml table values
func TestTOMLCodec(t *testing.T) {
	m := New()
	require.NoError(t, m.UnmarshalTOML(map[string]any{
		"server": map[string]any{"port": int64(8080)},
		"title":  "x",
	}))
	assert.Equal(t, []string{"server", "title"}, m.Keys())
	assert.IsType(t, &Map{}, m.Get("server", nil))

	assert.Error(t, m.UnmarshalTOML("scalar"))
}

// TestCBORCodec tests binary round trips
func TestCBORCodec(t *testing.T) {
	m := Convert(map[string]any{
		"name":  "svc",
		"count": 3,
		"nested": map[string]any{
			"enabled": true,
			"tags":    []any{"a", "b"},
		},
	})

	data, err := m.MarshalCBOR()
	require.NoError(t, err)

	back := New()
	require.NoError(t, back.UnmarshalCBOR(data))
	assert.Equal(t, "svc", back.Get("name", nil))
	assert.EqualValues(t, 3, back.Get("count", nil))
	assert.Equal(t, true, back.GetPath("nested.enabled"))
	assert.Equal(t, []any{"a", "b"}, back.GetPath("nested.tags"))
	assert.IsType(t, &Map{}, back.Get("nested", nil))

	t.Run("Deterministic", func(t *testing.T) {
		a := New().Set("x", 1).Set("y", 2)
		b := New().Set("y", 2).Set("x", 1)

		da, err := a.MarshalCBOR()
		require.NoError(t, err)
		db, err := b.MarshalCBOR()
		require.NoError(t, err)
		assert.Equal(t, da, db)
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.Error(t, New().UnmarshalCBOR([]byte{0xff, 0x00}))
	})
}
