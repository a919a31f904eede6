package builtin_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/builtin"
	"github.com/dmitrymomot/rulekit/pkg/constraint"
)

type recorder struct {
	names []string
	fail  map[string]bool
}

func (r *recorder) Register(def constraint.Definition) error {
	if r.fail[def.Name] {
		return errors.New("duplicate " + def.Name)
	}
	r.names = append(r.names, def.Name)
	return nil
}

func TestAll(t *testing.T) {
	defs := builtin.All()
	require.Len(t, defs, len(builtin.Plain())+len(builtin.Persistent()))

	seen := map[string]bool{}
	for _, def := range defs {
		require.NoError(t, def.Check(), def.Name)
		assert.False(t, seen[def.Name], "duplicate %s", def.Name)
		seen[def.Name] = true
	}
	for _, def := range builtin.Persistent() {
		assert.True(t, def.Persistent, def.Name)
	}
	for _, def := range builtin.Plain() {
		assert.False(t, def.Persistent, def.Name)
	}
}

func TestRegister(t *testing.T) {
	r := &recorder{}
	require.NoError(t, builtin.Register(r))
	assert.Len(t, r.names, len(builtin.All()))

	r = &recorder{fail: map[string]bool{"email": true, "uuid": true}}
	err := builtin.Register(r, builtin.Plain()...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate email")
	assert.Contains(t, err.Error(), "duplicate uuid")
	assert.Len(t, r.names, len(builtin.Plain())-2)
}
