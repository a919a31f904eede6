package constraint

import (
	"context"

	"github.com/dmitrymomot/rulekit/pkg/store"
)

// Scope is passed to every predicate call. It carries what the rule is bound
// to and, for persistent rules, access to the store.
type Scope struct {
	ctx context.Context
	v   *Validator
}

// Context returns the context of the current Validate call.
func (s *Scope) Context() context.Context { return s.ctx }

// Rule returns the rule name.
func (s *Scope) Rule() string { return s.v.Name() }

// Property returns the property the rule is bound to.
func (s *Scope) Property() string { return s.v.property }

// Owner returns the owning entity the rule is bound to.
func (s *Scope) Owner() string { return s.v.owner }

// Param returns the rule parameter.
func (s *Scope) Param() any { return s.v.param }

// Store acquires a store handle. Plain rules get ErrNotPersistent. A
// persistent rule gets a nil handle when no session factory is registered.
func (s *Scope) Store() (*store.Handle, error) {
	if s.v.acquire == nil {
		return nil, ErrNotPersistent
	}
	return s.v.acquire()
}
