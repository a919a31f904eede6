package constraint

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/store"
)

// Constraint is what a validation pipeline runs for one property of one owner.
type Constraint interface {
	Name() string
	Supports(t reflect.Type) bool
	DefaultMessage(code string) (string, bool)
	Bind(owner, property string, param any) error
	Validate(ctx context.Context, target, value any, errs Errors) error
}

// MessageSource resolves message codes to message templates.
type MessageSource interface {
	Message(code string) (string, bool)
}

var _ Constraint = (*Validator)(nil)

// Validator adapts a Definition to the Constraint contract. It holds no
// mutable state after Bind, so one instance may serve concurrent Validate
// calls as long as the rule's predicates are reentrant.
type Validator struct {
	def      Definition
	messages MessageSource
	log      *slog.Logger

	owner    string
	property string
	param    any

	// set by PersistentValidator
	acquire func() (*store.Handle, error)
}

func newValidator(def Definition, o *options) *Validator {
	return &Validator{
		def:      def,
		messages: o.messages,
		log:      o.log,
	}
}

func (v *Validator) Name() string { return v.def.Name }

// Arity returns the number of arguments the validation predicate receives.
func (v *Validator) Arity() int { return v.def.Validate.Arity() }

func (v *Validator) Owner() string    { return v.owner }
func (v *Validator) Property() string { return v.property }
func (v *Validator) Param() any       { return v.param }

// Persistent reports whether the validator has persistence access.
func (v *Validator) Persistent() bool { return v.acquire != nil }

// Supports reports whether the rule applies to properties of type t.
// Without a supports predicate every type is supported.
func (v *Validator) Supports(t reflect.Type) bool {
	if v.def.Supports == nil {
		return true
	}
	return v.def.Supports(t)
}

// DefaultMessage resolves code through the message source first and falls
// back to the rule's configured default message.
func (v *Validator) DefaultMessage(code string) (string, bool) {
	if v.messages != nil {
		if msg, ok := v.messages.Message(code); ok && msg != "" {
			return msg, true
		}
	}
	if v.def.DefaultMessage != "" {
		return v.def.DefaultMessage, true
	}
	return "", false
}

// Bind attaches the validator to a property of an owner with a rule
// parameter. The rule's parameter check runs first.
func (v *Validator) Bind(owner, property string, param any) error {
	if v.def.ValidateParam != nil {
		if err := v.def.ValidateParam(param, property, owner); err != nil {
			return fmt.Errorf("%w: rule %q on %s.%s: %w", ErrInvalidParameter, v.def.Name, owner, property, err)
		}
	}
	v.owner = owner
	v.property = property
	v.param = param
	return nil
}

// Validate runs the predicate against value and reports a rejection into
// errs when it returns false. Predicate errors come back wrapped in
// ErrPredicateFault and produce no rejection; panics are not recovered.
// A nil ctx is treated as context.Background().
func (v *Validator) Validate(ctx context.Context, target, value any, errs Errors) error {
	if errs == nil {
		return ErrNilErrors
	}
	if ctx == nil {
		ctx = context.Background()
	}

	scope := &Scope{ctx: ctx, v: v}
	valid, err := v.def.Validate.call(scope, value, target, errs)
	if err != nil {
		return fmt.Errorf("%w: rule %q on %s.%s: %w", ErrPredicateFault, v.def.Name, v.owner, v.property, err)
	}
	if valid {
		return nil
	}

	code := v.def.DefaultMessageCode()
	msg, _ := v.DefaultMessage(code)
	errs.Reject(Rejection{
		Rule:           v.def.Name,
		Target:         target,
		Property:       v.property,
		Owner:          v.owner,
		Value:          value,
		MessageCode:    code,
		FailureCode:    v.def.Failure(),
		DefaultMessage: msg,
		Args:           []any{v.property, v.owner, value, v.param},
	})

	v.log.DebugContext(ctx, "constraint rejected value",
		logger.Rule(v.def.Name),
		logger.Owner(v.owner),
		logger.Property(v.property),
	)
	return nil
}
