// FILE: lixenwraith/optmap/attr.go
package optmap

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var (
	memberNamesOnce sync.Once
	memberNames     map[string]bool
)

// typeMembers returns the method names of *Map. Attribute writes under these
// names are kept as object state so data keys never shadow behavior.
func typeMembers() map[string]bool {
	memberNamesOnce.Do(func() {
		t := reflect.TypeOf((*Map)(nil))
		memberNames = make(map[string]bool, t.NumMethod())
		for i := 0; i < t.NumMethod(); i++ {
			memberNames[t.Method(i).Name] = true
		}
	})
	return memberNames
}

// IsReserved reports whether an attribute name bypasses map storage:
// names with a leading underscore, *Map method names, and names already held as fields.
func (m *Map) IsReserved(name string) bool {
	if strings.HasPrefix(name, "_") || typeMembers()[name] {
		return true
	}
	_, isField := m.fields[name]
	return isField
}

// Attr reads name with attribute semantics. Reserved names resolve to fields,
// all other names to map entries. Absent names fail with ErrAttributeNotFound.
func (m *Map) Attr(name string) (any, error) {
	if m.IsReserved(name) {
		if v, ok := m.fields[name]; ok {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrAttributeNotFound, name)
	}
	if v, ok := m.items[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrAttributeNotFound, name)
}

// SetAttr writes name with attribute semantics. Reserved names are stored as
// fields and never appear in Keys; all other names are stored as map entries.
func (m *Map) SetAttr(name string, value any) *Map {
	if m.IsReserved(name) {
		if m.fields == nil {
			m.fields = make(map[string]any)
		}
		m.fields[name] = value
		return m
	}
	return m.Set(name, value)
}

// Field returns a value held in reserved attribute storage
func (m *Map) Field(name string) (any, bool) {
	v, ok := m.fields[name]
	return v, ok
}
