package builtin

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
)

var tags = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// probeTag runs tag against a zero value to surface unknown tag names,
// which the validator reports by panicking.
func probeTag(tag string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: tag %q: %v", ErrInvalidParam, tag, r)
		}
	}()
	_ = tags().Var("", tag)
	return nil
}

// Tag delegates to a go-playground validator tag such as "url" or
// "gte=1,lte=10". Nil values pass unless the tag itself requires them.
func Tag() constraint.Definition {
	return constraint.Definition{
		Name:           "tag",
		DefaultMessage: "Property [{0}] of class [{1}] with value [{2}] does not satisfy [{3}]",
		ValidateParam: func(param any, _, _ string) error {
			tag, ok := param.(string)
			if !ok || tag == "" {
				return fmt.Errorf("%w: tag must be a non-empty string, got %T", ErrInvalidParam, param)
			}
			return probeTag(tag)
		},
		Validate: constraint.Func1(func(s *constraint.Scope, value any) (bool, error) {
			tag, _ := s.Param().(string)
			value = deref(value)
			if value == nil && !strings.Contains(tag, "required") {
				return true, nil
			}
			err := tags().Var(value, tag)
			if err == nil {
				return true, nil
			}
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				return false, nil
			}
			return false, err
		}),
	}
}
