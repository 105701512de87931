// FILE: lixenwraith/optmap/type.go
package optmap

import (
	"reflect"
	"sort"
)

// Computed marks a body member derived on access. Like any function value it
// is never lifted into a default table.
type Computed func() any

// Type is a configurable type: an immutable default-option table aggregated
// from its bases, its own declaration and optionally its body.
type Type struct {
	name         string
	bases        []*Type
	own          *Map // Declared defaults as given
	body         *Map // Body members left after lifting
	table        *Map // Effective defaults, never mutated after Build
	fromBody     bool // Effective defaults-from-body flag, OR'd across bases
	checkUnknown bool
	popUsed      bool
	tagName      string
}

// aggregate computes the default table: bases in reverse declaration order,
// then the type's own defaults, then lifted body values
func (t *Type) aggregate() *Map {
	table := New()
	for i := len(t.bases) - 1; i >= 0; i-- {
		// Clone so later merges cannot reach into a base's table
		table.Merge(t.bases[i].table.Clone(), DeepMergeOptions())
	}
	table.Merge(t.own.Clone(), DeepMergeOptions())

	if t.fromBody {
		for _, key := range table.Keys() {
			value, ok := t.body.Lookup(key)
			if !ok || isCallable(value) {
				continue
			}
			t.body.Delete(key)
			table.Merge(New().Set(key, value), DeepMergeOptions())
		}
	}
	return table
}

func isCallable(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}

// Name returns the type name
func (t *Type) Name() string {
	return t.name
}

// Bases returns the direct base types in declaration order
func (t *Type) Bases() []*Type {
	return append([]*Type(nil), t.bases...)
}

func (t *Type) baseNames() []string {
	names := make([]string, len(t.bases))
	for i, base := range t.bases {
		names[i] = base.name
	}
	return names
}

// Defaults returns a deep copy of the effective default table
func (t *Type) Defaults() *Map {
	return t.table.Clone()
}

// Keys returns the option names of the default table in order
func (t *Type) Keys() []string {
	return t.table.Keys()
}

// HasOption reports whether name is part of the default table
func (t *Type) HasOption(name string) bool {
	return t.table.Has(name)
}

// Body returns a deep copy of the body members that were not lifted
func (t *Type) Body() *Map {
	return t.body.Clone()
}

// Member returns a body member by name. Computed members are evaluated.
func (t *Type) Member(name string) (any, bool) {
	v, ok := t.body.Lookup(name)
	if !ok {
		return nil, false
	}
	if c, isComputed := v.(Computed); isComputed {
		return c(), true
	}
	return cloneValue(v), true
}

// DefaultsFromBody reports whether body lifting is in effect for this type
func (t *Type) DefaultsFromBody() bool {
	return t.fromBody
}

// ChecksUnknownKeys reports whether construction rejects unknown keys
func (t *Type) ChecksUnknownKeys() bool {
	return t.checkUnknown
}

// PopsUsedKeys reports whether construction removes consumed keys from its arguments
func (t *Type) PopsUsedKeys() bool {
	return t.popUsed
}

// IsSubtypeOf reports whether other is t or one of its ancestors
func (t *Type) IsSubtypeOf(other *Type) bool {
	if t == other {
		return true
	}
	for _, base := range t.bases {
		if base.IsSubtypeOf(other) {
			return true
		}
	}
	return false
}

// New constructs an instance: the default table merged with args, projected
// onto the table's keys. Keys of args missing from the table fail with
// *InvalidArgumentError unless the check is disabled. On success, when popping
// is enabled, consumed keys are deleted from args so the remainder can be
// forwarded; on failure args is left untouched.
func (t *Type) New(args map[string]any) (*Map, error) {
	work := t.table.Clone()
	work.Merge(args, DeepMergeOptions())

	if t.checkUnknown {
		var unknown []string
		for key := range args {
			if !t.table.Has(key) {
				unknown = append(unknown, key)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return nil, &InvalidArgumentError{Type: t.name, Keys: unknown}
		}
	}

	inst := New()
	for _, key := range t.table.keys {
		inst.Set(key, work.items[key])
	}

	if t.popUsed {
		for _, key := range t.table.keys {
			delete(args, key)
		}
	}
	return inst, nil
}

// Bind constructs an instance and decodes it onto target, a non-nil pointer to
// a struct or map, using the type's tag name
func (t *Type) Bind(target any, args map[string]any) error {
	inst, err := t.New(args)
	if err != nil {
		return err
	}
	return inst.Decode(target, t.tagName)
}
