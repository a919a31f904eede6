package constraint

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Errors receives validation failures. Implementations decide how failures
// are stored and presented; Validate only ever calls Reject.
type Errors interface {
	Reject(r Rejection)
}

// Rejection is a single validation failure.
type Rejection struct {
	Rule           string
	Target         any
	Property       string
	Owner          string
	Value          any
	MessageCode    string
	FailureCode    string
	DefaultMessage string
	// Args are the message interpolation arguments: property, owner, value, param.
	Args []any
}

// Renderer turns a rejection into a user facing message.
type Renderer interface {
	Render(r Rejection) string
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(r Rejection) string

func (f RendererFunc) Render(r Rejection) string { return f(r) }

// Collector is a concurrency-safe Errors implementation that keeps
// rejections in arrival order.
type Collector struct {
	mu         sync.Mutex
	rejections []Rejection
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Reject(r Rejection) {
	c.mu.Lock()
	c.rejections = append(c.rejections, r)
	c.mu.Unlock()
}

// Rejections returns a copy of the collected rejections.
func (c *Collector) Rejections() []Rejection {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Rejection, len(c.rejections))
	copy(out, c.rejections)
	return out
}

func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rejections)
}

func (c *Collector) HasErrors() bool { return c.Len() > 0 }

// ValidationErrors converts the collected rejections. With a nil renderer
// the message falls back to the rejection's default message, then its
// failure code. Returns nil when nothing was rejected.
func (c *Collector) ValidationErrors(renderer Renderer) ValidationErrors {
	rejections := c.Rejections()
	if len(rejections) == 0 {
		return nil
	}

	out := make(ValidationErrors, 0, len(rejections))
	for _, r := range rejections {
		msg := r.DefaultMessage
		if renderer != nil {
			msg = renderer.Render(r)
		}
		if msg == "" {
			msg = r.FailureCode
		}

		values := map[string]any{
			"property": r.Property,
			"owner":    r.Owner,
			"value":    r.Value,
		}
		if len(r.Args) > 3 {
			values["param"] = r.Args[3]
		}

		out = append(out, ValidationError{
			Field:             r.Property,
			Rule:              r.Rule,
			Code:              r.FailureCode,
			Message:           msg,
			TranslationKey:    r.MessageCode,
			TranslationValues: values,
		})
	}
	return out
}

// ValidationError represents a single validation error with translation support.
type ValidationError struct {
	Field             string         `json:"field"`
	Rule              string         `json:"rule"`
	Code              string         `json:"code"`
	Message           string         `json:"message"`
	TranslationKey    string         `json:"translation_key,omitempty"`
	TranslationValues map[string]any `json:"translation_values,omitempty"`
}

// ValidationErrors is a collection of validation errors that satisfies error.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages reported for field.
func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Fields returns the distinct failing fields in first-seen order.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

// ExtractValidationErrors extracts ValidationErrors from an error chain.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}
