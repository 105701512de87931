// File: lixenwraith/optmap/helper.go
package optmap

import (
	"fmt"
	"strconv"
	"strings"
)

// GetPath returns the value at a dot-separated path, or nil when any segment
// is missing or does not lead through a mapping
func (m *Map) GetPath(path string) any {
	v, _ := m.LookupPath(path)
	return v
}

// LookupPath returns the value at a dot-separated path and whether it exists
func (m *Map) LookupPath(path string) (any, bool) {
	path = strings.TrimSuffix(path, ".")
	if path == "" {
		return m, true
	}

	var current any = m
	for _, segment := range strings.Split(path, ".") {
		e, ok := mappingEntries(current)
		if !ok {
			return nil, false
		}
		value, exists := e.lookup(segment)
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}

// SetPath sets a value using a dot-separated path, creating intermediate maps.
// A segment holding a non-mapping value is overwritten by a new map; a plain
// Go map on the way is promoted to *Map.
func (m *Map) SetPath(path string, value any) *Map {
	segments := strings.Split(path, ".")
	current := m

	// Iterate through segments up to the second-to-last one
	for _, segment := range segments[:len(segments)-1] {
		next, exists := current.items[segment]
		switch t := next.(type) {
		case *Map:
			if t != nil {
				current = t
				continue
			}
		default:
			if exists && isPlainMapping(t) {
				promoted := promote(t)
				current.Set(segment, promoted)
				current = promoted
				continue
			}
		}
		child := New()
		current.Set(segment, child)
		current = child
	}

	current.Set(segments[len(segments)-1], value)
	return m
}

// Flatten converts nested mappings to a flat map with dot-notation paths.
// Empty nested mappings produce no entries.
func (m *Map) Flatten() map[string]any {
	flat := make(map[string]any)
	flattenInto(flat, m, "")
	return flat
}

func flattenInto(flat map[string]any, v any, prefix string) {
	e, _ := mappingEntries(v)
	for _, key := range e.keys {
		newPath := key
		if prefix != "" {
			newPath = prefix + "." + key
		}

		value := e.values[key]
		if KindOf(value) == KindMapping {
			flattenInto(flat, value, newPath)
			continue
		}
		flat[newPath] = value
	}
}

// ParseOverrides processes override arguments into a nested Map.
// Accepted forms are "--key.subkey=value", "--key.subkey value" and "--flag"
// (stored as true). Non-flag arguments and a bare "--" are skipped.
func ParseOverrides(args []string) (*Map, error) {
	result := New()
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			i++
			continue
		}

		var keyPath, valueStr string
		if k, v, found := strings.Cut(argContent, "="); found {
			keyPath, valueStr = k, v
			i++
		} else {
			keyPath = argContent
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			continue
		}

		for _, segment := range strings.Split(keyPath, ".") {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid override key segment %q in path %q", segment, keyPath)
			}
		}

		result.SetPath(keyPath, parseValue(valueStr))
	}

	return result, nil
}

// parseValue converts an override string into a bool, int64, float64 or string
func parseValue(s string) any {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	if b, err := strconv.ParseBool(s); err == nil && (s == "true" || s == "false") {
		return b
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if !strings.ContainsAny(s, "0123456789") {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// isValidKeySegment checks if a single path segment is a valid TOML bare key
func isValidKeySegment(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isUnderscore := r == '_'
		isDash := r == '-'

		if !(isLetter || isDigit || isUnderscore || isDash) {
			return false
		}
	}
	return true
}
