package components

import (
	"fmt"
	"sort"

	"github.com/crawlkit/crawlkit/pkg/chart"
)

// Registry manages all available components
type Registry struct {
	components map[string]Component
}

// NewRegistry creates a new component registry
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]Component),
	}
}

// Register adds a component to the registry
func (r *Registry) Register(component Component) error {
	name := component.Name()
	if _, exists := r.components[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}
	r.components[name] = component
	return nil
}

// Get retrieves a component by name
func (r *Registry) Get(name string) (Component, error) {
	component, exists := r.components[name]
	if !exists {
		return nil, fmt.Errorf("component %s not found", name)
	}
	return component, nil
}

// List returns the registered component names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry creates a registry with all stack components
func DefaultRegistry() *Registry {
	registry := NewRegistry()

	registry.Register(NewSetupComponent())
	for _, component := range chart.Components {
		registry.Register(NewStackComponent(component))
	}
	registry.Register(NewTelemetryComponent())

	return registry
}
