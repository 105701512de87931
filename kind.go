// FILE: lixenwraith/optmap/kind.go
package optmap

import (
	"reflect"
	"sort"
)

// Kind classifies a value stored in a Map
type Kind int

const (
	// KindScalar covers every value that is neither a mapping nor a sequence, including nil
	KindScalar Kind = iota
	// KindSequence covers slices and arrays, except []byte
	KindSequence
	// KindMapping covers *Map and Go maps with string keys
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// KindOf returns the classification of v
func KindOf(v any) Kind {
	switch t := v.(type) {
	case nil:
		return KindScalar
	case *Map:
		if t == nil {
			return KindScalar
		}
		return KindMapping
	case map[string]any:
		return KindMapping
	case []any, []map[string]any:
		return KindSequence
	case string, []byte, bool, int, int64, float64:
		return KindScalar
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindMapping
		}
	case reflect.Slice, reflect.Array:
		return KindSequence
	}
	return KindScalar
}

// isPlainMapping reports a mapping that is not a *Map
func isPlainMapping(v any) bool {
	if _, ok := v.(*Map); ok {
		return false
	}
	return KindOf(v) == KindMapping
}

// entries is a read-only ordered view over any mapping value
type entries struct {
	keys   []string
	values map[string]any
}

func (e entries) lookup(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// mappingEntries returns an ordered view of v, or false when v is not a mapping.
// *Map sources keep insertion order; Go maps are visited in sorted key order.
func mappingEntries(v any) (entries, bool) {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return entries{}, false
		}
		t.init()
		return entries{keys: append([]string(nil), t.keys...), values: t.items}, true
	case map[string]any:
		return entries{keys: sortedKeys(t), values: t}, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return entries{}, false
	}
	values := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		values[iter.Key().String()] = iter.Value().Interface()
	}
	return entries{keys: sortedKeys(values), values: values}, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
