package resource

import "errors"

var (
	// ErrEmptyName is returned when registering a resource without a name.
	ErrEmptyName = errors.New("resource name cannot be empty")

	// ErrNilResource is returned when registering a nil resource.
	ErrNilResource = errors.New("resource cannot be nil")
)
