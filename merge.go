// FILE: lixenwraith/optmap/merge.go
package optmap

// MergeOptions selects the merge policy. The flags combine freely.
type MergeOptions struct {
	// Recursive merges nested mappings key by key instead of replacing them
	Recursive bool

	// AddKeys allows keys absent from the receiver to be added.
	// When false the receiver's key set never changes.
	AddKeys bool

	// ConvertNested promotes plain nested mappings, including mappings held in
	// sequences, to *Map so recursive merges and attribute access keep working
	ConvertNested bool
}

// DefaultMergeOptions returns the shallow union policy: source wins, keys added
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{AddKeys: true}
}

// DeepMergeOptions returns the recursive, key-adding, converting policy used
// for configuration overlays and default aggregation
func DeepMergeOptions() MergeOptions {
	return MergeOptions{
		Recursive:     true,
		AddKeys:       true,
		ConvertNested: true,
	}
}

// Update merges source as a shallow union
func (m *Map) Update(source any) *Map {
	return m.Merge(source, DefaultMergeOptions())
}

// Merge folds source into the receiver according to opts and returns the receiver.
// A source that is not a mapping leaves the receiver unchanged.
func (m *Map) Merge(source any, opts MergeOptions) *Map {
	src, ok := mappingEntries(source)
	if !ok {
		return m
	}
	m.init()

	if !opts.Recursive {
		if opts.AddKeys {
			for _, k := range src.keys {
				m.Set(k, src.values[k])
			}
			return m
		}
		for _, k := range m.Keys() {
			if nv, found := src.lookup(k); found {
				m.items[k] = nv
			}
		}
		return m
	}

	if opts.AddKeys {
		for _, k := range src.keys {
			m.mergeKey(k, src.values[k], opts)
		}
		return m
	}

	// Selective update: only keys already present are considered
	for _, k := range m.Keys() {
		nv, found := src.lookup(k)
		if !found {
			continue
		}
		m.mergeKey(k, nv, opts)
	}
	return m
}

// mergeKey applies one incoming value under the recursive policy:
// both mappings merge, anything else replaces.
func (m *Map) mergeKey(key string, nv any, opts MergeOptions) {
	if opts.ConvertNested {
		nv = convertNested(nv)
	}

	if cv, exists := m.items[key]; exists && KindOf(nv) == KindMapping {
		if opts.ConvertNested && isPlainMapping(cv) {
			cv = promote(cv)
			m.items[key] = cv
		}
		switch current := cv.(type) {
		case *Map:
			if current != nil {
				current.Merge(nv, opts)
				return
			}
		case map[string]any:
			updatePlain(current, nv, opts.AddKeys)
			return
		}
	}

	m.Set(key, nv)
}

// MergeAll deep merges layers, weakest first, into a new Map that shares no
// nested structure with its inputs
func MergeAll(layers ...any) *Map {
	res := New()
	for _, layer := range layers {
		if KindOf(layer) != KindMapping {
			continue
		}
		res.Merge(cloneValue(layer), DeepMergeOptions())
	}
	return res
}

// convertNested promotes plain mappings to *Map and converts mapping elements
// of sequences. Sequences are copied, never modified in place.
func convertNested(v any) any {
	switch t := v.(type) {
	case *Map:
		return t
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = convertNested(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Convert(e)
		}
		return out
	}
	if isPlainMapping(v) {
		return Convert(v)
	}
	return v
}

// promote makes a shallow *Map from a plain mapping
func promote(v any) *Map {
	e, _ := mappingEntries(v)
	res := New()
	for _, k := range e.keys {
		res.Set(k, e.values[k])
	}
	return res
}

// updatePlain applies a shallow update to a plain map held as a current value
func updatePlain(dst map[string]any, source any, addKeys bool) {
	src, ok := mappingEntries(source)
	if !ok {
		return
	}
	for _, k := range src.keys {
		if _, exists := dst[k]; exists || addKeys {
			dst[k] = src.values[k]
		}
	}
}
