// FILE: lixenwraith/optmap/decode.go
package optmap

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DefaultTagName is the struct tag consulted when no tag name is given
const DefaultTagName = "toml"

// Decode projects the map onto target, which must be a non-nil pointer to a
// struct or map. Field names come from tagName, DefaultTagName when empty.
func (m *Map) Decode(target any, tagName string) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}
	if tagName == "" {
		tagName = DefaultTagName
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(m.ToMap()); err != nil {
		return fmt.Errorf("failed to decode into %T: %w", target, err)
	}
	return nil
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		_, ipnet, err := net.ParseCIDR(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		u, err := url.Parse(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}

// FromStruct builds a Map from the exported fields of a struct or struct
// pointer. Keys come from tagName (DefaultTagName when empty), falling back to
// the field name; "-" skips a field. Nested structs become nested *Map and
// nil struct pointers are skipped.
func FromStruct(v any, tagName string) (*Map, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("FromStruct requires a non-nil struct pointer or value")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("FromStruct requires a struct or struct pointer, got %T", v)
	}
	if tagName == "" {
		tagName = DefaultTagName
	}
	return structFields(rv, tagName), nil
}

func structFields(v reflect.Value, tagName string) *Map {
	res := New()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(tagName)
		if tag == "-" {
			continue
		}
		key := field.Name
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			key = name
		}

		isStruct := fieldValue.Kind() == reflect.Struct && !isOpaqueStruct(field.Type)
		isPtrToStruct := fieldValue.Kind() == reflect.Ptr &&
			field.Type.Elem().Kind() == reflect.Struct && !isOpaqueStruct(field.Type.Elem())

		if isStruct || isPtrToStruct {
			nested := fieldValue
			if isPtrToStruct {
				if fieldValue.IsNil() {
					continue
				}
				nested = fieldValue.Elem()
			}
			res.Set(key, structFields(nested, tagName))
			continue
		}

		res.Set(key, fieldValue.Interface())
	}
	return res
}

// isOpaqueStruct reports struct types kept as leaf values rather than walked
func isOpaqueStruct(t reflect.Type) bool {
	switch t {
	case reflect.TypeOf(time.Time{}), reflect.TypeOf(url.URL{}), reflect.TypeOf(net.IPNet{}):
		return true
	}
	return false
}

// toMapping normalizes a declaration value: mappings are deep converted,
// structs are walked with tagName
func toMapping(v any, tagName string) (*Map, error) {
	if v == nil {
		return New(), nil
	}
	if KindOf(v) == KindMapping {
		return Convert(v), nil
	}
	return FromStruct(v, tagName)
}
