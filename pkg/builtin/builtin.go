package builtin

import (
	"errors"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
)

// Registrar accepts rule definitions.
type Registrar interface {
	Register(def constraint.Definition) error
}

// Plain returns the rules that need no session.
func Plain() []constraint.Definition {
	return []constraint.Definition{
		Required(),
		MinLength(),
		MaxLength(),
		Email(),
		UUID(),
		Pattern(),
		OneOf(),
		Range(),
		Tag(),
		Confirmed(),
	}
}

// Persistent returns the rules backed by a session factory.
func Persistent() []constraint.Definition {
	return []constraint.Definition{
		Unique(),
		UniqueDocument(),
		NotBlocked(),
	}
}

// All returns every builtin rule.
func All() []constraint.Definition {
	return append(Plain(), Persistent()...)
}

// Register adds defs to r, or every builtin rule when defs is empty.
// It registers as many as it can and reports every failure.
func Register(r Registrar, defs ...constraint.Definition) error {
	if len(defs) == 0 {
		defs = All()
	}
	var errs []error
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
