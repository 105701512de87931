// FILE: lixenwraith/optmap/codec.go
package optmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// cborEncMode uses Core Deterministic Encoding so equal maps produce identical bytes
var cborEncMode cbor.EncMode

// cborDecMode decodes any-typed maps as map[string]any instead of map[any]any
var cborDecMode cbor.DecMode

func init() {
	var err error

	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("optmap: CBOR encoder initialization failed: " + err.Error())
	}

	cborDecMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("optmap: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.items[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal key %q: %w", k, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the map contents with a JSON object, keeping document
// key order and converting nested objects to *Map.
// Integral numbers decode as int64, other numbers as float64.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read JSON object: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("JSON value is not an object: %v", tok)
	}

	res, err := decodeJSONObject(dec)
	if err != nil {
		return err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return fmt.Errorf("invalid data after JSON object: %w", err)
		}
		return fmt.Errorf("unexpected data after JSON object: %v", tok)
	}
	m.items, m.keys = res.items, res.keys
	return nil
}

func decodeJSONObject(dec *json.Decoder) (*Map, error) {
	res := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected JSON key token %v", tok)
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		res.Set(key, value)
	}
	// Closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to close JSON object: %w", err)
	}
	return res, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			seq := make([]any, 0)
			for dec.More() {
				elem, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				seq = append(seq, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		}
		return nil, fmt.Errorf("unexpected JSON delimiter %v", t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, nil
		}
		return t.Float64()
	default:
		return t, nil
	}
}

// MarshalYAML encodes the map as a YAML mapping with keys in insertion order
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(m.items[k]); err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// UnmarshalYAML replaces the map contents with a YAML mapping, keeping
// document key order and converting nested mappings to *Map
func (m *Map) UnmarshalYAML(value *yaml.Node) error {
	decoded, err := decodeYAMLNode(value)
	if err != nil {
		return err
	}
	res, ok := decoded.(*Map)
	if !ok {
		return fmt.Errorf("YAML value at line %d is not a mapping", value.Line)
	}
	m.items, m.keys = res.items, res.keys
	return nil
}

func decodeYAMLNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return New(), nil
		}
		return decodeYAMLNode(node.Content[0])
	case yaml.AliasNode:
		return decodeYAMLNode(node.Alias)
	case yaml.MappingNode:
		res := New()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind == yaml.ScalarNode && keyNode.Value == "<<" && keyNode.ShortTag() == "!!merge" {
				// "<<: *anchor" fills keys not set explicitly
				merged, err := decodeYAMLNode(valueNode)
				if err != nil {
					return nil, err
				}
				sources := []any{merged}
				if seq, ok := merged.([]any); ok {
					sources = seq
				}
				for _, src := range sources {
					e, ok := mappingEntries(src)
					if !ok {
						continue
					}
					for _, k := range e.keys {
						if !res.Has(k) {
							res.Set(k, e.values[k])
						}
					}
				}
				continue
			}
			var key string
			if err := keyNode.Decode(&key); err != nil {
				return nil, fmt.Errorf("line %d: mapping key: %w", keyNode.Line, err)
			}
			value, err := decodeYAMLNode(valueNode)
			if err != nil {
				return nil, err
			}
			res.Set(key, value)
		}
		return res, nil
	case yaml.SequenceNode:
		seq := make([]any, 0, len(node.Content))
		for _, elem := range node.Content {
			v, err := decodeYAMLNode(elem)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return v, nil
	}
}

// UnmarshalTOML implements toml.Unmarshaler for tables decoded by BurntSushi/toml
func (m *Map) UnmarshalTOML(data any) error {
	if KindOf(data) != KindMapping {
		return fmt.Errorf("TOML value is not a table: %T", data)
	}
	res := Convert(data)
	m.items, m.keys = res.items, res.keys
	return nil
}

// MarshalCBOR implements cbor.Marshaler
func (m *Map) MarshalCBOR() ([]byte, error) {
	return cborEncMode.Marshal(m.ToMap())
}

// UnmarshalCBOR implements cbor.Unmarshaler
func (m *Map) UnmarshalCBOR(data []byte) error {
	var raw map[string]any
	if err := cborDecMode.Unmarshal(data, &raw); err != nil {
		return err
	}
	res := Convert(raw)
	m.items, m.keys = res.items, res.keys
	return nil
}
