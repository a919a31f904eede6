package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/dmitrymomot/rulekit/pkg/builtin"
	"github.com/dmitrymomot/rulekit/pkg/constraint"
	"github.com/dmitrymomot/rulekit/pkg/fields"
	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/messages"
	"github.com/dmitrymomot/rulekit/pkg/resource"
)

type cacheKey struct {
	generation uint64
	entity     string
	property   string
	index      int
}

// Engine checks targets against a ruleset. It is safe for concurrent use.
type Engine struct {
	mu         sync.RWMutex
	ruleset    *Ruleset
	generation uint64

	registry  *Registry
	extra     []constraint.Definition
	cache     *lru[cacheKey, constraint.Constraint]
	cacheSize int

	log       *slog.Logger
	messages  *messages.Catalog
	renderer  constraint.Renderer
	resources resource.Provider
	metrics   *Metrics
}

// NewEngine builds an engine for rs. Unless WithRegistry is given, the
// plain builtin rules are registered, plus the persistent ones when
// resources are configured.
func NewEngine(rs *Ruleset, opts ...Option) (*Engine, error) {
	if rs == nil {
		return nil, fmt.Errorf("%w: ruleset is nil", ErrInvalidRuleset)
	}

	e := &Engine{
		ruleset:   rs,
		cacheSize: DefaultCacheSize,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With(logger.Component("checker"))
	e.renderer = e.messages
	if e.messages == nil {
		e.renderer = messages.New(nil)
	}

	if e.registry == nil {
		copts := []constraint.Option{constraint.WithLogger(e.log)}
		if e.messages != nil {
			copts = append(copts, constraint.WithMessageSource(e.messages))
		}
		e.registry = NewRegistry(e.resources, copts...)

		defs := builtin.Plain()
		if e.resources != nil {
			defs = builtin.All()
		}
		if err := builtin.Register(e.registry, defs...); err != nil {
			return nil, err
		}
	}
	if len(e.extra) > 0 {
		if err := builtin.Register(e.registry, e.extra...); err != nil {
			return nil, err
		}
	}

	if err := e.prepare(rs); err != nil {
		return nil, err
	}
	e.cache = newLRU[cacheKey, constraint.Constraint](e.cacheSize)
	return e, nil
}

// Registry returns the rules available to rulesets.
func (e *Engine) Registry() *Registry { return e.registry }

// Ruleset returns the active ruleset.
func (e *Engine) Ruleset() *Ruleset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ruleset
}

// Reload swaps in rs and drops every cached validator. The active ruleset
// is kept when rs references unknown rules or bad parameters.
func (e *Engine) Reload(rs *Ruleset) error {
	if rs == nil {
		return fmt.Errorf("%w: ruleset is nil", ErrInvalidRuleset)
	}
	if err := e.prepare(rs); err != nil {
		return err
	}

	e.mu.Lock()
	e.ruleset = rs
	e.generation++
	e.mu.Unlock()

	e.cache.purge()
	e.log.Info("ruleset reloaded", slog.Int("entities", len(rs.Entities)))
	return nil
}

// prepare binds every rule of rs once so unknown rules and bad parameters
// surface before the ruleset is used.
func (e *Engine) prepare(rs *Ruleset) error {
	if err := rs.Check(e.registry); err != nil {
		return err
	}

	var errs []error
	for _, entity := range rs.Names() {
		rules := rs.Entities[entity]
		for _, property := range rules.Properties() {
			for _, ref := range rules[property] {
				f, _ := e.registry.Factory(ref.Rule)
				if err := f.NewInstance().Bind(entity, property, ref.Param); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidRuleset}, errs...)...)
	}
	return nil
}

// Cached returns the number of bound validators currently cached.
func (e *Engine) Cached() int { return e.cache.len() }

// Check validates target as entity. It returns nil when every rule passes,
// constraint.ValidationErrors when some reject, and any other error when a
// rule could not be evaluated.
func (e *Engine) Check(ctx context.Context, entity string, target any) error {
	errs, err := e.Validate(ctx, entity, target)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate works like Check but returns the rejections separately.
func (e *Engine) Validate(ctx context.Context, entity string, target any) (constraint.ValidationErrors, error) {
	if target == nil {
		return nil, ErrNilTarget
	}

	e.mu.RLock()
	rules, ok := e.ruleset.Entity(entity)
	generation := e.generation
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}

	collector := constraint.NewCollector()
	for _, property := range rules.Properties() {
		value, _ := fields.Lookup(target, property)
		typ, _ := fields.TypeOf(target, property)

		for i, ref := range rules[property] {
			v, err := e.validator(cacheKey{generation, entity, property, i}, ref)
			if err != nil {
				return nil, err
			}
			if err := e.apply(ctx, v, typ, target, value, collector); err != nil {
				return nil, err
			}
		}
	}

	return collector.ValidationErrors(e.renderer), nil
}

func (e *Engine) apply(ctx context.Context, v constraint.Constraint, typ reflect.Type, target, value any, c *constraint.Collector) error {
	if !v.Supports(typ) {
		e.metrics.observe(v.Name(), OutcomeSkipped)
		e.log.DebugContext(ctx, "rule does not support property type",
			logger.Rule(v.Name()),
			slog.Any("type", typ),
		)
		return nil
	}

	before := c.Len()
	if err := v.Validate(ctx, target, value, c); err != nil {
		e.metrics.observe(v.Name(), OutcomeFault)
		e.log.ErrorContext(ctx, "rule evaluation failed", logger.Rule(v.Name()), logger.Error(err))
		return err
	}
	if c.Len() > before {
		e.metrics.observe(v.Name(), OutcomeRejected)
	} else {
		e.metrics.observe(v.Name(), OutcomePassed)
	}
	return nil
}

func (e *Engine) validator(key cacheKey, ref RuleRef) (constraint.Constraint, error) {
	v, _, err := e.cache.getOrAdd(key, func() (constraint.Constraint, error) {
		f, ok := e.registry.Factory(ref.Rule)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRule, ref.Rule)
		}
		c := f.NewInstance()
		if err := c.Bind(key.entity, key.property, ref.Param); err != nil {
			return nil, err
		}
		return c, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidRuleset, err)
	}
	return v, nil
}
