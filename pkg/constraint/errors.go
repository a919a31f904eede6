package constraint

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is the parent of every construction-time failure.
	ErrConfiguration = errors.New("constraint configuration error")

	// ErrResourceContextRequired is returned when a persistent rule has no resource context.
	ErrResourceContextRequired = fmt.Errorf("%w: resource context required for persistent rule", ErrConfiguration)

	// ErrInvalidDefinition is returned for definitions without a name or predicate.
	ErrInvalidDefinition = fmt.Errorf("%w: invalid rule definition", ErrConfiguration)

	// ErrInvalidPredicate is returned when a function cannot be adapted to a predicate.
	ErrInvalidPredicate = fmt.Errorf("%w: invalid predicate", ErrConfiguration)

	// ErrInvalidParameter is returned when a rule rejects the parameter it is bound with.
	ErrInvalidParameter = fmt.Errorf("%w: invalid rule parameter", ErrConfiguration)

	// ErrPredicateFault wraps any failure raised while running a predicate.
	ErrPredicateFault = errors.New("predicate fault")

	// ErrTypeMismatch is returned when a predicate result or argument has the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNilResult is returned when a predicate returns nil instead of a boolean.
	ErrNilResult = errors.New("predicate returned nil")

	// ErrNotPersistent is returned by Scope.Store for rules without persistence access.
	ErrNotPersistent = errors.New("rule has no persistence access")

	// ErrNilErrors is returned when Validate is called without an error sink.
	ErrNilErrors = errors.New("error sink cannot be nil")
)
