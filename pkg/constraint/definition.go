package constraint

import (
	"fmt"
	"reflect"
)

// SupportsFunc decides whether a rule applies to a property of the given type.
// The type is nil when the property value is an untyped nil.
type SupportsFunc func(t reflect.Type) bool

// ParamFunc validates the parameter a rule is bound with.
type ParamFunc func(param any, property, owner string) error

// Definition describes a user-supplied rule. It is treated as immutable once
// handed to a Factory: the factory keeps its own copy.
type Definition struct {
	Name       string
	Persistent bool

	// Validate is required. Build it with Func0..Func3 or Reflect.
	Validate Predicate
	// Supports is optional; a nil value supports every type.
	Supports SupportsFunc

	DefaultMessage string
	// MessageCode defaults to "default.invalid.<name>.message".
	MessageCode string
	// FailureCode defaults to "invalid.<name>".
	FailureCode string

	ValidateParam ParamFunc
}

// Check reports whether d can produce validators.
func (d Definition) Check() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidDefinition)
	}
	if d.Validate == nil || reflect.ValueOf(d.Validate).IsNil() {
		return fmt.Errorf("%w: rule %q has no validation predicate", ErrInvalidDefinition, d.Name)
	}
	if a := d.Validate.Arity(); a < 0 || a > 3 {
		return fmt.Errorf("%w: rule %q has arity %d", ErrInvalidPredicate, d.Name, a)
	}
	return nil
}

// DefaultMessageCode returns the message code used when rejecting values.
func (d Definition) DefaultMessageCode() string {
	if d.MessageCode != "" {
		return d.MessageCode
	}
	return "default.invalid." + d.Name + ".message"
}

// Failure returns the failure code used when rejecting values.
func (d Definition) Failure() string {
	if d.FailureCode != "" {
		return d.FailureCode
	}
	return "invalid." + d.Name
}
