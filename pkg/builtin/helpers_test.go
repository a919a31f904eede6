package builtin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
	"github.com/dmitrymomot/rulekit/pkg/resource"
)

// check binds def to user.<property> and reports whether value passed.
func check(t *testing.T, def constraint.Definition, rc resource.Provider, property string, param, target, value any) (bool, error) {
	t.Helper()

	c, err := constraint.Create(def, rc)
	require.NoError(t, err)
	require.NoError(t, c.Bind("user", property, param))

	errs := constraint.NewCollector()
	if err := c.Validate(context.Background(), target, value, errs); err != nil {
		return false, err
	}
	return !errs.HasErrors(), nil
}

func session(bean any) *resource.Registry {
	r := resource.NewRegistry()
	r.MustRegister(resource.SessionFactory, bean)
	return r
}
