// FILE: lixenwraith/optmap/type_test.go
package optmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRegistry isolates test types from the default registry
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(nil)
}

// TestTypeAggregation tests default tables inherited from bases
func TestTypeAggregation(t *testing.T) {
	reg := newTestRegistry(t)

	t1 := NewType("T1").WithRegistry(reg).
		WithDefaults(map[string]any{"a": 1, "b": 2}).
		MustBuild()
	t2 := NewType("T2").WithRegistry(reg).
		WithBases(t1).
		WithDefaults(New().Set("b", 3).Set("c", 4)).
		MustBuild()

	assert.Equal(t, map[string]any{"a": 1, "b": 2}, t1.Defaults().ToMap())
	assert.Equal(t, map[string]any{"a": 1, "b": 3, "c": 4}, t2.Defaults().ToMap())
	assert.Equal(t, []string{"a", "b", "c"}, t2.Keys())
	assert.True(t, t2.HasOption("a"))
	assert.False(t, t2.HasOption("z"))

	t.Run("FirstBaseWins", func(t *testing.T) {
		a := NewType("A").WithRegistry(reg).WithDefaults(map[string]any{"x": 1, "y": 1}).MustBuild()
		b := NewType("B").WithRegistry(reg).WithDefaults(map[string]any{"y": 2, "z": 2}).MustBuild()
		c := NewType("C").WithRegistry(reg).WithBases(a, b).MustBuild()

		assert.Equal(t, map[string]any{"x": 1, "y": 1, "z": 2}, c.Defaults().ToMap())
		require.Len(t, c.Bases(), 2)
		assert.Equal(t, "A", c.Bases()[0].Name())
		assert.Equal(t, "B", c.Bases()[1].Name())
	})

	t.Run("NestedDefaultsMerge", func(t *testing.T) {
		base := NewType("NestedBase").WithRegistry(reg).
			WithDefaults(map[string]any{"db": map[string]any{"host": "localhost", "port": 5432}}).
			MustBuild()
		sub := NewType("NestedSub").WithRegistry(reg).
			WithBases(base).
			WithDefaults(map[string]any{"db": map[string]any{"port": 6432}}).
			MustBuild()

		assert.Equal(t, "localhost", sub.Defaults().GetPath("db.host"))
		assert.Equal(t, 6432, sub.Defaults().GetPath("db.port"))

		// The base table is not reached by the subtype's merge
		assert.Equal(t, 5432, base.Defaults().GetPath("db.port"))
	})

	t.Run("DefaultsAreCopies", func(t *testing.T) {
		d := t1.Defaults()
		d.Set("a", 100)
		assert.Equal(t, 1, t1.Defaults().Get("a", nil))
	})
}

// TestTypeNew tests instance construction
func TestTypeNew(t *testing.T) {
	reg := newTestRegistry(t)
	t1 := NewType("T1").WithRegistry(reg).
		WithDefaults(map[string]any{"a": 1, "b": 2}).
		MustBuild()

	t.Run("Defaults", func(t *testing.T) {
		inst, err := t1.New(nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 1, "b": 2}, inst.ToMap())
	})

	t.Run("Override", func(t *testing.T) {
		inst, err := t1.New(map[string]any{"a": 5})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 5, "b": 2}, inst.ToMap())
		assert.Equal(t, []string{"a", "b"}, inst.Keys())

		v, err := inst.Attr("a")
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	})

	t.Run("UnknownKeysRejected", func(t *testing.T) {
		args := map[string]any{"z": 1, "a": 5, "y": 2}
		inst, err := t1.New(args)
		require.Error(t, err)
		assert.Nil(t, inst)
		assert.True(t, errors.Is(err, ErrInvalidArgument))

		var argErr *InvalidArgumentError
		require.True(t, errors.As(err, &argErr))
		assert.Equal(t, "T1", argErr.Type)
		assert.Equal(t, []string{"y", "z"}, argErr.Keys)
		assert.Contains(t, err.Error(), "y, z")

		// Arguments are untouched on failure
		assert.Equal(t, map[string]any{"z": 1, "a": 5, "y": 2}, args)
	})

	t.Run("UsedKeysPopped", func(t *testing.T) {
		lenient := NewType("Lenient").WithRegistry(reg).
			WithBases(t1).
			WithUnknownKeyCheck(false).
			MustBuild()

		args := map[string]any{"a": 5, "extra": true}
		inst, err := lenient.New(args)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 5, "b": 2}, inst.ToMap())
		assert.Equal(t, map[string]any{"extra": true}, args)
	})

	t.Run("PopDisabled", func(t *testing.T) {
		keep := NewType("Keep").WithRegistry(reg).
			WithBases(t1).
			WithPopUsedKeys(false).
			MustBuild()

		args := map[string]any{"a": 5}
		_, err := keep.New(args)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 5}, args)
		assert.False(t, keep.PopsUsedKeys())
		assert.True(t, keep.ChecksUnknownKeys())
	})

	t.Run("NestedArgsMergeDeep", func(t *testing.T) {
		svc := NewType("Service").WithRegistry(reg).
			WithDefaults(map[string]any{"db": map[string]any{"host": "localhost", "port": 5432}}).
			MustBuild()

		inst, err := svc.New(map[string]any{"db": map[string]any{"port": 6432}})
		require.NoError(t, err)
		assert.Equal(t, "localhost", inst.GetPath("db.host"))
		assert.Equal(t, 6432, inst.GetPath("db.port"))

		// Instances share nothing with the table
		inst.GetPath("db").(*Map).Set("host", "changed")
		assert.Equal(t, "localhost", svc.Defaults().GetPath("db.host"))

		other, err := svc.New(nil)
		require.NoError(t, err)
		assert.Equal(t, "localhost", other.GetPath("db.host"))
	})
}

// TestTypeBodyLifting tests default values taken from body members
func TestTypeBodyLifting(t *testing.T) {
	reg := newTestRegistry(t)

	helper := func() string { return "behavior" }
	t3 := NewType("T3").WithRegistry(reg).
		WithDefaults(map[string]any{"a": 1, "fn": nil}).
		WithBody(map[string]any{"a": 7, "fn": helper, "other": 3}).
		WithDefaultsFromBody(true).
		MustBuild()

	assert.Equal(t, 7, t3.Defaults().Get("a", nil))
	assert.True(t, t3.DefaultsFromBody())

	body := t3.Body()
	assert.False(t, body.Has("a"))
	assert.True(t, body.Has("fn"))
	assert.Equal(t, 3, body.Get("other", nil))
	assert.False(t, t3.HasOption("other"))

	// Functions are never lifted
	assert.Nil(t, t3.Defaults().Get("fn", "missing"))

	t.Run("Inherited", func(t *testing.T) {
		t4 := NewType("T4").WithRegistry(reg).
			WithBases(t3).
			WithDefaults(map[string]any{"b": 1}).
			WithBody(map[string]any{"a": 9, "b": 2}).
			MustBuild()

		assert.True(t, t4.DefaultsFromBody())
		assert.Equal(t, map[string]any{"a": 9, "b": 2, "fn": nil}, t4.Defaults().ToMap())
		assert.Equal(t, 7, t3.Defaults().Get("a", nil))
	})

	t.Run("DisabledKeepsBody", func(t *testing.T) {
		plain := NewType("Plain").WithRegistry(reg).
			WithDefaults(map[string]any{"a": 1}).
			WithBody(map[string]any{"a": 7}).
			MustBuild()

		assert.Equal(t, 1, plain.Defaults().Get("a", nil))
		v, ok := plain.Member("a")
		assert.True(t, ok)
		assert.Equal(t, 7, v)
	})

	t.Run("ComputedMembers", func(t *testing.T) {
		calls := 0
		computed := NewType("Computed").WithRegistry(reg).
			WithDefaults(map[string]any{"size": 1}).
			WithBody(map[string]any{"size": Computed(func() any {
				calls++
				return 42
			})}).
			WithDefaultsFromBody(true).
			MustBuild()

		assert.Equal(t, 1, computed.Defaults().Get("size", nil))
		assert.Equal(t, 0, calls)

		v, ok := computed.Member("size")
		assert.True(t, ok)
		assert.Equal(t, 42, v)
		assert.Equal(t, 1, calls)

		_, ok = computed.Member("absent")
		assert.False(t, ok)
	})

	t.Run("NestedBodyValueMergesDeep", func(t *testing.T) {
		nested := NewType("NestedBody").WithRegistry(reg).
			WithDefaults(map[string]any{"db": map[string]any{"host": "localhost", "port": 5432}}).
			WithBody(map[string]any{"db": map[string]any{"port": 6432}}).
			WithDefaultsFromBody(true).
			MustBuild()

		assert.Equal(t, "localhost", nested.Defaults().GetPath("db.host"))
		assert.Equal(t, 6432, nested.Defaults().GetPath("db.port"))
	})
}

// TestTypeBind tests construction onto a struct
func TestTypeBind(t *testing.T) {
	reg := newTestRegistry(t)
	server := NewType("Server").WithRegistry(reg).
		WithDefaults(map[string]any{"host": "localhost", "port": 8080}).
		MustBuild()

	var cfg struct {
		Host string `toml:"host"`
		Port int    `toml:"port"`
	}
	require.NoError(t, server.Bind(&cfg, map[string]any{"port": 9090}))
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)

	err := server.Bind(&cfg, map[string]any{"nope": 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// TestTypeHierarchy tests subtype checks and base accessors
func TestTypeHierarchy(t *testing.T) {
	reg := newTestRegistry(t)
	root := NewType("Root").WithRegistry(reg).MustBuild()
	mid := NewType("Mid").WithRegistry(reg).WithBases(root).MustBuild()
	leaf := NewType("Leaf").WithRegistry(reg).WithBases(mid).MustBuild()
	other := NewType("Other").WithRegistry(reg).MustBuild()

	assert.True(t, leaf.IsSubtypeOf(leaf))
	assert.True(t, leaf.IsSubtypeOf(root))
	assert.False(t, root.IsSubtypeOf(leaf))
	assert.False(t, leaf.IsSubtypeOf(other))

	bases := leaf.Bases()
	require.Len(t, bases, 1)
	assert.Same(t, mid, bases[0])
	assert.Equal(t, 0, root.Defaults().Len())
}
