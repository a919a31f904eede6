package checker

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
	"github.com/dmitrymomot/rulekit/pkg/resource"
)

// Registry holds one factory per rule name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]*constraint.Factory
	rc        resource.Provider
	opts      []constraint.Option
}

// NewRegistry returns an empty registry. rc is handed to persistent rules
// and may be nil when none are registered.
func NewRegistry(rc resource.Provider, opts ...constraint.Option) *Registry {
	return &Registry{
		factories: make(map[string]*constraint.Factory),
		rc:        rc,
		opts:      opts,
	}
}

// Register builds a factory for def. Names are unique.
func (r *Registry) Register(def constraint.Definition) error {
	f, err := constraint.NewFactory(def, r.rc, r.opts...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[def.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, def.Name)
	}
	r.factories[def.Name] = f
	return nil
}

// Factory returns the factory registered under name.
func (r *Registry) Factory(name string) (*constraint.Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered rule names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
