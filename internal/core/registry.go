package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[Format]FormatDefinition)
	registryMu sync.RWMutex
)

// Register adds a format definition to the registry.
// Panics if the format is already registered.
func Register(def FormatDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Format]; exists {
		panic(fmt.Sprintf("source format already registered: %s", def.Format))
	}
	if def.New == nil {
		panic(fmt.Sprintf("source format %s has no constructor", def.Format))
	}

	registry[def.Format] = def
}

// Get returns a format definition by name.
// Returns false if not found.
func Get(format Format) (FormatDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[format]
	return def, ok
}

// All returns all registered format definitions sorted by name.
func All() []FormatDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]FormatDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Format < result[j].Format
	})

	return result
}

// FormatCount returns the number of registered formats.
func FormatCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered formats.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[Format]FormatDefinition)
}

// OpenSources resolves every spec against the registry in declaration order.
// Duplicate keys and unknown formats are rejected.
func OpenSources(specs []SourceSpec, deps Deps) ([]Source, error) {
	seen := make(map[string]bool, len(specs))
	sources := make([]Source, 0, len(specs))

	for _, spec := range specs {
		if spec.Key == "" {
			return nil, fmt.Errorf("%w: source with empty key", ErrValidation)
		}
		if seen[spec.Key] {
			return nil, fmt.Errorf("%w: duplicate source key %q", ErrValidation, spec.Key)
		}
		seen[spec.Key] = true

		def, ok := Get(spec.Format)
		if !ok {
			return nil, fmt.Errorf("%w: unknown source format %q for %s", ErrValidation, spec.Format, spec.Key)
		}
		src, err := def.New(spec, deps)
		if err != nil {
			return nil, fmt.Errorf("open source %s: %w", spec.Key, err)
		}
		sources = append(sources, src)
	}

	return sources, nil
}

// ShapeOf returns the shape of a registered format, defaulting to long.
func ShapeOf(format Format) Shape {
	if def, ok := Get(format); ok {
		return def.Shape
	}
	return ShapeLong
}
