package constraint

import (
	"fmt"

	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/resource"
	"github.com/dmitrymomot/rulekit/pkg/store"
)

var _ Constraint = (*PersistentValidator)(nil)

// PersistentValidator is a Validator whose predicates may query a store
// through Scope.Store.
type PersistentValidator struct {
	*Validator
	rc resource.Provider
}

func newPersistentValidator(def Definition, rc resource.Provider, o *options) *PersistentValidator {
	p := &PersistentValidator{
		Validator: newValidator(def, o),
		rc:        rc,
	}
	p.acquire = p.AcquireStoreHandle
	return p
}

// ResourceContext returns the bound resource provider.
func (p *PersistentValidator) ResourceContext() (resource.Provider, error) {
	if isNilProvider(p.rc) {
		return nil, ErrResourceContextRequired
	}
	return p.rc, nil
}

// AcquireStoreHandle resolves the session factory on every call. It returns
// a nil handle and no error when the provider has no session factory.
func (p *PersistentValidator) AcquireStoreHandle() (*store.Handle, error) {
	rc, err := p.ResourceContext()
	if err != nil {
		return nil, err
	}

	bean, ok := rc.Acquire(resource.SessionFactory)
	if !ok || bean == nil {
		p.log.Debug("session factory not registered",
			logger.Rule(p.Name()),
			logger.Resource(resource.SessionFactory),
		)
		return nil, nil
	}

	h, err := store.NewHandle(bean, store.WithFlushOnWrite(true))
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", p.Name(), err)
	}
	return h, nil
}
