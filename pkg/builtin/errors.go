package builtin

import "errors"

var (
	// ErrInvalidParam is returned by parameter checks when a rule is bound with
	// an unusable parameter.
	ErrInvalidParam = errors.New("invalid rule parameter")

	// ErrNoSession is returned by persistent rules when no session factory is registered.
	ErrNoSession = errors.New("no session factory registered")

	// ErrUnsupportedValue is returned when a rule receives a value it cannot inspect.
	ErrUnsupportedValue = errors.New("unsupported value type")
)
