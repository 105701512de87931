// FILE: lixenwraith/optmap/map.go
package optmap

import (
	"fmt"
	"iter"
	"strings"
)

// Map is an ordered string-keyed mapping whose values are scalars, sequences or
// nested mappings. The zero value is an empty map ready to use.
type Map struct {
	items  map[string]any // Backing storage, single source of truth for keys
	keys   []string       // Insertion order
	fields map[string]any // Reserved attribute storage, never part of the key set
}

// New creates an empty Map
func New() *Map {
	return &Map{items: make(map[string]any)}
}

// FromMap creates a Map holding the entries of src. Nested values are shared, not copied.
func FromMap(src map[string]any) *Map {
	m := New()
	for _, k := range sortedKeys(src) {
		m.Set(k, src[k])
	}
	return m
}

// Convert creates a Map from any mapping value, promoting every nested plain
// mapping, including mappings inside sequences, to *Map.
// A non-mapping source yields an empty Map.
func Convert(source any) *Map {
	return New().Merge(source, DeepMergeOptions())
}

func (m *Map) init() {
	if m.items == nil {
		m.items = make(map[string]any)
	}
}

// Get returns the value stored at key, or def when the key is absent
func (m *Map) Get(key string, def any) any {
	if v, ok := m.items[key]; ok {
		return v
	}
	return def
}

// Lookup returns the value stored at key and whether it was present
func (m *Map) Lookup(key string) (any, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Has reports whether key is present
func (m *Map) Has(key string) bool {
	_, ok := m.items[key]
	return ok
}

// Set stores value at key. New keys are appended to the key order.
func (m *Map) Set(key string, value any) *Map {
	m.init()
	if _, exists := m.items[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.items[key] = value
	return m
}

// Delete removes key and reports whether it was present
func (m *Map) Delete(key string) bool {
	if _, exists := m.items[key]; !exists {
		return false
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order
func (m *Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys
func (m *Map) Len() int {
	return len(m.items)
}

// All iterates over key/value pairs in insertion order
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range m.Keys() {
			v, ok := m.items[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Copy returns a new Map with the same top-level keys and values. Nested
// mappings are shared with the receiver. Each additional mapping is merged on
// top as a shallow union.
func (m *Map) Copy(additional ...any) *Map {
	res := New()
	res.Merge(m, DefaultMergeOptions())
	for _, add := range additional {
		res.Merge(add, DefaultMergeOptions())
	}
	return res
}

// Plus returns a copy of the receiver with other merged on top as a shallow union
func (m *Map) Plus(other any) *Map {
	return m.Copy(other)
}

// Clone returns a deep copy. Every nested mapping in the result is a *Map
// independent of the receiver; sequences are copied element-wise.
func (m *Map) Clone() *Map {
	res := New()
	for _, k := range m.keys {
		res.Set(k, cloneValue(m.items[k]))
	}
	return res
}

// ToMap returns the contents as plain Go values, converting nested *Map to map[string]any
func (m *Map) ToMap() map[string]any {
	out := make(map[string]any, len(m.items))
	for k, v := range m.items {
		out[k] = plainValue(v)
	}
	return out
}

// String renders the map in key order, e.g. {a: 1, b: {c: 2}}
func (m *Map) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range m.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, m.items[k])
	}
	b.WriteString("}")
	return b.String()
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return t
		}
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	}
	if isPlainMapping(v) {
		e, _ := mappingEntries(v)
		res := New()
		for _, k := range e.keys {
			res.Set(k, cloneValue(e.values[k]))
		}
		return res
	}
	return v
}

func plainValue(v any) any {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return nil
		}
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plainValue(e)
		}
		return out
	}
	return v
}
