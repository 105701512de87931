// FILE: lixenwraith/optmap/registry.go
package optmap

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry holds configurable types by name. Definition is serialized so each
// type's default table is published exactly once.
type Registry struct {
	types  map[string]*Type
	logger *slog.Logger
	mutex  sync.RWMutex
}

var defaultRegistry = NewRegistry(nil)

// NewRegistry creates an empty registry. A nil logger discards records.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		types:  make(map[string]*Type),
		logger: logger,
	}
}

// DefaultRegistry returns the registry used by builders without WithRegistry
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Lookup returns the type registered under name
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	t, ok := r.types[name]
	return t, ok
}

// Names returns all registered type names in sorted order
func (r *Registry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) register(t *Type) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.types[t.name]; exists {
		return fmt.Errorf("%w: %s", ErrTypeExists, t.name)
	}
	r.types[t.name] = t

	r.logger.Debug("configurable type defined",
		"type", t.name,
		"bases", t.baseNames(),
		"options", t.table.Keys(),
		"defaults_from_body", t.fromBody,
	)
	return nil
}
