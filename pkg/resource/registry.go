package resource

import (
	"fmt"
	"slices"
	"sync"
)

// SessionFactory is the registry key persistent constraints resolve.
const SessionFactory = "sessionFactory"

// Provider resolves shared resources by name.
type Provider interface {
	Acquire(name string) (any, bool)
}

// Registry is a thread-safe name to resource map.
type Registry struct {
	mu    sync.RWMutex
	beans map[string]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{beans: make(map[string]any)}
}

// Register sets or replaces the resource stored under name.
func (r *Registry) Register(name string, bean any) error {
	if name == "" {
		return ErrEmptyName
	}
	if bean == nil {
		return fmt.Errorf("%w: %q", ErrNilResource, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.beans[name] = bean
	return nil
}

// MustRegister works like Register but panics on error.
func (r *Registry) MustRegister(name string, bean any) {
	if err := r.Register(name, bean); err != nil {
		panic(err)
	}
}

// Contains reports whether a resource is registered under name.
func (r *Registry) Contains(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.beans[name]
	return ok
}

// Acquire returns the resource registered under name.
func (r *Registry) Acquire(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bean, ok := r.beans[name]
	return bean, ok
}

// Remove deletes the resource under name and returns it.
func (r *Registry) Remove(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bean, ok := r.beans[name]
	delete(r.beans, name)
	return bean, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.beans))
	for name := range r.beans {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(name string) (any, bool)

func (f ProviderFunc) Acquire(name string) (any, bool) { return f(name) }
