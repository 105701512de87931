// FILE: lixenwraith/optmap/doc.go

// Package optmap provides a structured configuration merge engine for nested
// mapping data: configuration trees, option sets and type-level defaults.
//
// Features:
//   - Map: an ordered string-keyed mapping with attribute-style access
//   - Recursive merge with independent Recursive, AddKeys and ConvertNested flags
//   - Shallow Copy, deep Clone and layered MergeAll
//   - Dot-path helpers, flattening and command-line override parsing
//   - TOML, JSON, JSONC, YAML and CBOR codecs with format detection
//   - Struct decoding through mapstructure
//   - Configurable types: default-option tables aggregated across a type
//     hierarchy and applied at construction time with unknown-key rejection
//
// Quick Start:
//
//	base := optmap.NewType("Server").
//	    WithDefaults(map[string]any{
//	        "host": "localhost",
//	        "tls":  map[string]any{"enabled": false},
//	    }).
//	    MustBuild()
//
//	secure := optmap.NewType("SecureServer").
//	    WithBases(base).
//	    WithDefaults(map[string]any{"tls": map[string]any{"enabled": true}}).
//	    MustBuild()
//
//	inst, err := secure.New(map[string]any{"host": "example.org"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	enabled := inst.GetPath("tls.enabled") // true
//
// Merge Semantics:
//
//	m := optmap.Convert(map[string]any{"x": map[string]any{"p": 1, "q": 2}})
//	m.Merge(map[string]any{"x": map[string]any{"q": 5, "r": 6}}, optmap.DeepMergeOptions())
//	// x = {p: 1, q: 5, r: 6}
//
// Thread Safety:
// A Map is not safe for concurrent mutation. Type definition is serialized by
// the Registry; a built Type is immutable and may be used from any goroutine.
package optmap
