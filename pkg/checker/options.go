package checker

import (
	"log/slog"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
	"github.com/dmitrymomot/rulekit/pkg/messages"
	"github.com/dmitrymomot/rulekit/pkg/resource"
)

const DefaultCacheSize = 1024

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMessages resolves rejection messages through c.
func WithMessages(c *messages.Catalog) Option {
	return func(e *Engine) { e.messages = c }
}

// WithResources enables the persistent builtin rules.
func WithResources(rc resource.Provider) Option {
	return func(e *Engine) { e.resources = rc }
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithCacheSize bounds the number of bound validators kept between checks.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.cacheSize = n
		}
	}
}

// WithRegistry replaces the builtin registry. The engine then registers
// nothing on its own.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithDefinitions registers additional rules next to the builtins.
func WithDefinitions(defs ...constraint.Definition) Option {
	return func(e *Engine) { e.extra = append(e.extra, defs...) }
}
