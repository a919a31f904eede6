package builtin

import (
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
	"github.com/dmitrymomot/rulekit/pkg/fields"
)

// Required rejects nil, blank strings and empty collections.
func Required() constraint.Definition {
	return constraint.Definition{
		Name:           "required",
		DefaultMessage: "Property [{0}] of class [{1}] cannot be null",
		Validate: constraint.Func1(func(_ *constraint.Scope, value any) (bool, error) {
			if s, ok := deref(value).(string); ok {
				return strings.TrimSpace(s) != "", nil
			}
			return !isEmpty(value), nil
		}),
	}
}

func length(v any) (int, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), nil
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), nil
	default:
		return 0, fmt.Errorf("%w: %T has no length", ErrUnsupportedValue, v)
	}
}

func checkLength(param any, _, _ string) error {
	n, err := toInt(param)
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: length %d is negative", ErrInvalidParam, n)
	}
	return nil
}

func lengthRule(name, msg string, ok func(n, limit int) bool) constraint.Definition {
	return constraint.Definition{
		Name:           name,
		DefaultMessage: msg,
		Supports:       lengthy,
		ValidateParam:  checkLength,
		Validate: constraint.Func1(func(s *constraint.Scope, value any) (bool, error) {
			value = deref(value)
			if value == nil {
				return true, nil
			}
			n, err := length(value)
			if err != nil {
				return false, err
			}
			limit, err := toInt(s.Param())
			if err != nil {
				return false, err
			}
			return ok(n, limit), nil
		}),
	}
}

// MinLength rejects values shorter than param.
func MinLength() constraint.Definition {
	return lengthRule("minLength",
		"Property [{0}] of class [{1}] with value [{2}] is less than the minimum size of [{3}]",
		func(n, limit int) bool { return n >= limit })
}

// MaxLength rejects values longer than param.
func MaxLength() constraint.Definition {
	return lengthRule("maxLength",
		"Property [{0}] of class [{1}] with value [{2}] exceeds the maximum size of [{3}]",
		func(n, limit int) bool { return n <= limit })
}

// Email accepts RFC 5322 addresses whose domain has at least one dot.
func Email() constraint.Definition {
	return constraint.Definition{
		Name:           "email",
		DefaultMessage: "Property [{0}] of class [{1}] with value [{2}] is not a valid e-mail address",
		Supports:       stringsOnly,
		Validate: constraint.Func1(func(_ *constraint.Scope, value any) (bool, error) {
			s, _ := deref(value).(string)
			if s == "" {
				return true, nil
			}
			return validEmail(s), nil
		}),
	}
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// UUID accepts canonical UUID strings and non-nil uuid.UUID values.
func UUID() constraint.Definition {
	return constraint.Definition{
		Name:           "uuid",
		DefaultMessage: "Property [{0}] of class [{1}] with value [{2}] is not a valid UUID",
		Supports: func(t reflect.Type) bool {
			return elem(t) == reflect.TypeFor[uuid.UUID]() || stringsOnly(t)
		},
		Validate: constraint.Func1(func(_ *constraint.Scope, value any) (bool, error) {
			switch v := deref(value).(type) {
			case nil:
				return true, nil
			case uuid.UUID:
				return v != uuid.Nil, nil
			case string:
				if v == "" {
					return true, nil
				}
				if len(v) != 36 || v[8] != '-' || v[13] != '-' || v[18] != '-' || v[23] != '-' {
					return false, nil
				}
				_, err := uuid.Parse(v)
				return err == nil, nil
			default:
				return false, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
			}
		}),
	}
}

var patterns sync.Map // string -> *regexp.Regexp

func compile(param any) (*regexp.Regexp, error) {
	expr, ok := param.(string)
	if !ok || expr == "" {
		return nil, fmt.Errorf("%w: pattern must be a non-empty string, got %T", ErrInvalidParam, param)
	}
	if re, ok := patterns.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}
	actual, _ := patterns.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}

// Pattern matches the whole string against the regular expression in param.
func Pattern() constraint.Definition {
	return constraint.Definition{
		Name:           "pattern",
		DefaultMessage: "Property [{0}] of class [{1}] with value [{2}] does not match the required pattern [{3}]",
		Supports:       stringsOnly,
		ValidateParam: func(param any, _, _ string) error {
			_, err := compile(param)
			return err
		},
		Validate: constraint.Func1(func(s *constraint.Scope, value any) (bool, error) {
			str, _ := deref(value).(string)
			if str == "" {
				return true, nil
			}
			re, err := compile(s.Param())
			if err != nil {
				return false, err
			}
			loc := re.FindStringIndex(str)
			return loc != nil && loc[0] == 0 && loc[1] == len(str), nil
		}),
	}
}

// OneOf accepts values whose string form is listed in param.
func OneOf() constraint.Definition {
	return constraint.Definition{
		Name:           "oneOf",
		DefaultMessage: "Property [{0}] of class [{1}] with value [{2}] is not contained within the list [{3}]",
		ValidateParam: func(param any, _, _ string) error {
			list, err := toStrings(param)
			if err == nil && len(list) == 0 {
				err = fmt.Errorf("%w: list is empty", ErrInvalidParam)
			}
			return err
		},
		Validate: constraint.Func1(func(s *constraint.Scope, value any) (bool, error) {
			value = deref(value)
			if isEmpty(value) {
				return true, nil
			}
			list, err := toStrings(s.Param())
			if err != nil {
				return false, err
			}
			return slices.Contains(list, fmt.Sprint(value)), nil
		}),
	}
}

// Range accepts numbers within param [min, max], inclusive.
func Range() constraint.Definition {
	return constraint.Definition{
		Name:           "range",
		DefaultMessage: "Property [{0}] of class [{1}] with value [{2}] does not fall within the valid range [{3}]",
		Supports:       numeric,
		ValidateParam: func(param any, _, _ string) error {
			_, _, err := toBounds(param)
			return err
		},
		Validate: constraint.Func1(func(s *constraint.Scope, value any) (bool, error) {
			value = deref(value)
			if value == nil {
				return true, nil
			}
			n, ok := toFloat(value)
			if !ok {
				return false, fmt.Errorf("%w: %T is not a number", ErrUnsupportedValue, value)
			}
			lo, hi, err := toBounds(s.Param())
			if err != nil {
				return false, err
			}
			return n >= lo && n <= hi, nil
		}),
	}
}

// Confirmed accepts values equal to the target's property named in param,
// as in a password confirmation field.
func Confirmed() constraint.Definition {
	return constraint.Definition{
		Name:           "confirmed",
		DefaultMessage: "Property [{0}] of class [{1}] does not match [{3}]",
		ValidateParam: func(param any, property, _ string) error {
			other, ok := param.(string)
			if !ok || other == "" {
				return fmt.Errorf("%w: confirmed needs the name of another property", ErrInvalidParam)
			}
			if other == property {
				return fmt.Errorf("%w: property %q cannot confirm itself", ErrInvalidParam, property)
			}
			return nil
		},
		Validate: constraint.Func2(func(s *constraint.Scope, value, target any) (bool, error) {
			name, _ := s.Param().(string)
			other, ok := fields.Lookup(target, name)
			if !ok {
				return false, nil
			}
			return reflect.DeepEqual(deref(value), deref(other)), nil
		}),
	}
}
