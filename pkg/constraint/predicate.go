package constraint

import (
	"context"
	"fmt"
	"reflect"
)

// Predicate is a validation check with a declared arity. The arity decides
// which arguments the check receives:
//
//	0: none
//	1: value
//	2: value, target
//	3: value, target, errs
//
// Build one with Func0, Func1, Func2, Func3 or Reflect.
type Predicate interface {
	Arity() int
	call(s *Scope, value, target any, errs Errors) (bool, error)
}

// Func0 ignores the value entirely.
type Func0 func(s *Scope) (bool, error)

func (f Func0) Arity() int { return 0 }

func (f Func0) call(s *Scope, _, _ any, _ Errors) (bool, error) { return f(s) }

// Func1 receives the property value.
type Func1 func(s *Scope, value any) (bool, error)

func (f Func1) Arity() int { return 1 }

func (f Func1) call(s *Scope, value, _ any, _ Errors) (bool, error) { return f(s, value) }

// Func2 receives the property value and the object that owns it.
type Func2 func(s *Scope, value, target any) (bool, error)

func (f Func2) Arity() int { return 2 }

func (f Func2) call(s *Scope, value, target any, _ Errors) (bool, error) {
	return f(s, value, target)
}

// Func3 also receives the error sink so it can report extra rejections.
type Func3 func(s *Scope, value, target any, errs Errors) (bool, error)

func (f Func3) Arity() int { return 3 }

func (f Func3) call(s *Scope, value, target any, errs Errors) (bool, error) {
	return f(s, value, target, errs)
}

var (
	scopeType   = reflect.TypeFor[*Scope]()
	contextType = reflect.TypeFor[context.Context]()
	errorsType  = reflect.TypeFor[Errors]()
	errorType   = reflect.TypeFor[error]()
	boolType    = reflect.TypeFor[bool]()
)

type reflectPredicate struct {
	fn        reflect.Value
	lead      reflect.Type // *Scope, context.Context or nil
	params    []reflect.Type
	resultAny bool
	withError bool
}

// Reflect adapts an arbitrary function to a Predicate by inspecting its
// signature. The function may take an optional leading *Scope or
// context.Context followed by up to three parameters (value, target, errs),
// and must return bool, any, (bool, error) or (any, error).
//
// Functions returning any are checked at call time: a nil result fails with
// ErrNilResult and a non-boolean one with ErrTypeMismatch. Arguments that are
// not assignable to the declared parameter types fail with ErrTypeMismatch.
func Reflect(fn any) (Predicate, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", ErrInvalidPredicate)
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: %T is not a function", ErrInvalidPredicate, fn)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic functions are not supported", ErrInvalidPredicate)
	}

	p := &reflectPredicate{fn: v}

	in := make([]reflect.Type, 0, t.NumIn())
	for i := range t.NumIn() {
		in = append(in, t.In(i))
	}
	if len(in) > 0 && (in[0] == scopeType || in[0] == contextType) {
		p.lead = in[0]
		in = in[1:]
	}
	if len(in) > 3 {
		return nil, fmt.Errorf("%w: %d parameters, at most 3 allowed", ErrInvalidPredicate, len(in))
	}
	if len(in) == 3 && !errorsType.AssignableTo(in[2]) {
		return nil, fmt.Errorf("%w: third parameter %s cannot receive the error sink", ErrInvalidPredicate, in[2])
	}
	p.params = in

	switch t.NumOut() {
	case 2:
		if t.Out(1) != errorType {
			return nil, fmt.Errorf("%w: second result must be error, got %s", ErrInvalidPredicate, t.Out(1))
		}
		p.withError = true
		fallthrough
	case 1:
		switch out := t.Out(0); {
		case out == boolType:
		case out.Kind() == reflect.Interface && boolType.Implements(out):
			p.resultAny = true
		default:
			return nil, fmt.Errorf("%w: %w: result type %s is not boolean", ErrInvalidPredicate, ErrTypeMismatch, out)
		}
	default:
		return nil, fmt.Errorf("%w: expected 1 or 2 results, got %d", ErrInvalidPredicate, t.NumOut())
	}

	return p, nil
}

// MustReflect works like Reflect but panics on error.
func MustReflect(fn any) Predicate {
	p, err := Reflect(fn)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *reflectPredicate) Arity() int { return len(p.params) }

func (p *reflectPredicate) call(s *Scope, value, target any, errs Errors) (bool, error) {
	args := make([]reflect.Value, 0, len(p.params)+1)
	switch p.lead {
	case scopeType:
		args = append(args, reflect.ValueOf(s))
	case contextType:
		args = append(args, reflect.ValueOf(s.Context()))
	}

	supplied := [3]any{value, target, errs}
	for i, pt := range p.params {
		arg, err := argument(supplied[i], pt)
		if err != nil {
			return false, fmt.Errorf("argument %d: %w", i+1, err)
		}
		args = append(args, arg)
	}

	out := p.fn.Call(args)
	if p.withError && !out[1].IsNil() {
		return false, out[1].Interface().(error)
	}
	if !p.resultAny {
		return out[0].Bool(), nil
	}
	if out[0].IsNil() {
		return false, ErrNilResult
	}
	res := out[0].Interface()
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("%w: result %T is not boolean", ErrTypeMismatch, res)
	}
	return b, nil
}

func argument(v any, want reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(want) {
		return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrTypeMismatch, rv.Type(), want)
	}
	return rv, nil
}
