// File: lixenwraith/optmap/builder.go
package optmap

import (
	"errors"
	"fmt"
)

// TypeBuilder provides a fluent interface for declaring configurable types
type TypeBuilder struct {
	name         string
	bases        []*Type
	defaults     any
	body         any
	fromBody     bool
	checkUnknown bool
	popUsed      bool
	tagName      string
	registry     *Registry
	errs         []error
}

// NewType starts the declaration of a configurable type.
// Unknown-key checking and popping of used keys are enabled by default.
func NewType(name string) *TypeBuilder {
	return &TypeBuilder{
		name:         name,
		checkUnknown: true,
		popUsed:      true,
		tagName:      DefaultTagName,
		registry:     defaultRegistry,
	}
}

// WithBases sets the base types. The first base takes precedence over later ones.
func (b *TypeBuilder) WithBases(bases ...*Type) *TypeBuilder {
	for i, base := range bases {
		if base == nil {
			b.errs = append(b.errs, fmt.Errorf("%w: base %d of %q is nil", ErrInvalidType, i, b.name))
			continue
		}
		b.bases = append(b.bases, base)
	}
	return b
}

// WithDefaults sets the type's own default options: a *Map, a Go map with
// string keys, or a struct
func (b *TypeBuilder) WithDefaults(defaults any) *TypeBuilder {
	b.defaults = defaults
	return b
}

// WithBody sets the type's body members: a *Map, a Go map with string keys, or
// a struct. Function values, including Computed, are behavior and never lifted.
func (b *TypeBuilder) WithBody(body any) *TypeBuilder {
	b.body = body
	return b
}

// WithDefaultsFromBody enables lifting plain body values into the default table
// for every key the table already has. The setting is inherited by subtypes.
func (b *TypeBuilder) WithDefaultsFromBody(enabled bool) *TypeBuilder {
	b.fromBody = enabled
	return b
}

// WithUnknownKeyCheck controls rejection of construction keys missing from the default table
func (b *TypeBuilder) WithUnknownKeyCheck(enabled bool) *TypeBuilder {
	b.checkUnknown = enabled
	return b
}

// WithPopUsedKeys controls removal of consumed option keys from construction arguments
func (b *TypeBuilder) WithPopUsedKeys(enabled bool) *TypeBuilder {
	b.popUsed = enabled
	return b
}

// WithTagName sets the struct tag used for struct declarations and Bind
func (b *TypeBuilder) WithTagName(tagName string) *TypeBuilder {
	if tagName != "" {
		b.tagName = tagName
	}
	return b
}

// WithRegistry selects the registry the type is published to
func (b *TypeBuilder) WithRegistry(r *Registry) *TypeBuilder {
	if r != nil {
		b.registry = r
	}
	return b
}

// Build computes the default table, registers the type and returns it
func (b *TypeBuilder) Build() (*Type, error) {
	errs := append([]error(nil), b.errs...)
	if b.name == "" {
		errs = append(errs, fmt.Errorf("%w: type name cannot be empty", ErrInvalidType))
	}

	own, err := toMapping(b.defaults, b.tagName)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: defaults of %q: %v", ErrInvalidType, b.name, err))
	}
	body, err := toMapping(b.body, b.tagName)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: body of %q: %v", ErrInvalidType, b.name, err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Declarations may hold caller-owned *Map values; the type keeps its own copies
	t := &Type{
		name:         b.name,
		bases:        append([]*Type(nil), b.bases...),
		own:          own.Clone(),
		body:         body.Clone(),
		fromBody:     b.fromBody,
		checkUnknown: b.checkUnknown,
		popUsed:      b.popUsed,
		tagName:      b.tagName,
	}
	for _, base := range t.bases {
		t.fromBody = t.fromBody || base.fromBody
	}
	t.table = t.aggregate()

	if err := b.registry.register(t); err != nil {
		return nil, err
	}
	return t, nil
}

// MustBuild is like Build but panics on error
func (b *TypeBuilder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("type build failed: %v", err))
	}
	return t
}
