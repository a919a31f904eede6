package constraint

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/resource"
)

// Option configures validators produced by a Factory.
type Option func(*options)

type options struct {
	messages MessageSource
	log      *slog.Logger
}

// WithMessageSource sets the source consulted before a rule's default message.
func WithMessageSource(ms MessageSource) Option {
	return func(o *options) { o.messages = ms }
}

// WithLogger sets the logger validators write debug records to.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Factory produces validators for one rule definition.
type Factory struct {
	def  Definition
	rc   resource.Provider
	opts options
}

// NewFactory checks def and returns a factory for it. A persistent
// definition without a resource provider fails with ErrResourceContextRequired.
func NewFactory(def Definition, rc resource.Provider, opts ...Option) (*Factory, error) {
	if err := def.Check(); err != nil {
		return nil, err
	}
	if def.Persistent && isNilProvider(rc) {
		return nil, fmt.Errorf("%w: rule %q", ErrResourceContextRequired, def.Name)
	}

	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Factory{def: def, rc: rc, opts: o}, nil
}

// MustNewFactory works like NewFactory but panics on error.
func MustNewFactory(def Definition, rc resource.Provider, opts ...Option) *Factory {
	f, err := NewFactory(def, rc, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Factory) Name() string     { return f.def.Name }
func (f *Factory) Persistent() bool { return f.def.Persistent }

// Definition returns a copy of the rule definition.
func (f *Factory) Definition() Definition { return f.def }

// NewInstance returns a fresh, unbound validator: a *PersistentValidator for
// persistent rules, a *Validator otherwise.
func (f *Factory) NewInstance() Constraint {
	if f.def.Persistent {
		return newPersistentValidator(f.def, f.rc, &f.opts)
	}
	return newValidator(f.def, &f.opts)
}

// Create builds a single validator for def. rc is only consulted for
// persistent rules and may be nil otherwise.
func Create(def Definition, rc resource.Provider, opts ...Option) (Constraint, error) {
	f, err := NewFactory(def, rc, opts...)
	if err != nil {
		return nil, err
	}
	return f.NewInstance(), nil
}

func isNilProvider(rc resource.Provider) bool {
	if rc == nil {
		return true
	}
	v := reflect.ValueOf(rc)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Interface, reflect.Slice:
		return v.IsNil()
	}
	return false
}
