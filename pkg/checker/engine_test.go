package checker_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/checker"
	"github.com/dmitrymomot/rulekit/pkg/constraint"
	"github.com/dmitrymomot/rulekit/pkg/messages"
	"github.com/dmitrymomot/rulekit/pkg/resource"
)

type user struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Age   int    `json:"age"`
}

func newEngine(t *testing.T, rules string, opts ...checker.Option) *checker.Engine {
	t.Helper()
	rs, err := checker.ParseRuleset([]byte(rules))
	require.NoError(t, err)
	e, err := checker.NewEngine(rs, opts...)
	require.NoError(t, err)
	return e
}

func TestEngine_Check(t *testing.T) {
	e := newEngine(t, userRules)
	ctx := context.Background()

	t.Run("valid struct", func(t *testing.T) {
		err := e.Check(ctx, "user", user{Email: "ann@example.com", Name: "Ann", Role: "admin"})
		assert.NoError(t, err)
	})

	t.Run("collects every rejection", func(t *testing.T) {
		err := e.Check(ctx, "user", &user{Email: "nope", Name: "Annabelle", Role: "root"})
		require.Error(t, err)
		require.True(t, constraint.IsValidationError(err))

		errs := constraint.ExtractValidationErrors(err)
		assert.Equal(t, []string{"email", "name", "role"}, errs.Fields())
		assert.Equal(t, "email", errs[0].Rule)
		assert.Equal(t, "invalid.email", errs[0].Code)
		assert.Equal(t, "maxLength", errs[1].Rule)
		assert.Equal(t, "Property [name] of class [user] with value [Annabelle] exceeds the maximum size of [5]", errs[1].Message)
	})

	t.Run("map target", func(t *testing.T) {
		err := e.Check(ctx, "user", map[string]any{"email": "", "name": "Al"})
		errs := constraint.ExtractValidationErrors(err)
		require.Len(t, errs, 1)
		assert.Equal(t, "required", errs[0].Rule)
	})

	t.Run("unknown entity", func(t *testing.T) {
		assert.ErrorIs(t, e.Check(ctx, "order", user{}), checker.ErrUnknownEntity)
	})

	t.Run("nil target", func(t *testing.T) {
		assert.ErrorIs(t, e.Check(ctx, "user", nil), checker.ErrNilTarget)
	})
}

func TestEngine_SkipsUnsupportedTypes(t *testing.T) {
	m, err := checker.NewMetrics(nil)
	require.NoError(t, err)

	e := newEngine(t, "entities:\n  user:\n    age:\n      - rule: minLength\n        param: 3\n", checker.WithMetrics(m))
	require.NoError(t, e.Check(context.Background(), "user", user{Age: 1}))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Validations.WithLabelValues("minLength", checker.OutcomeSkipped)))
}

func TestEngine_Messages(t *testing.T) {
	cat := messages.New(map[string]string{
		"user.email.invalid.email": "{2} is not an address we can write to",
		"invalid.required":         "{0} is required",
	})
	e := newEngine(t, userRules, checker.WithMessages(cat))

	errs, err := e.Validate(context.Background(), "user", user{Email: "x", Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x is not an address we can write to"}, errs.Get("email"))

	errs, err = e.Validate(context.Background(), "user", user{Name: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, []string{"email is required"}, errs.Get("email"))
}

func TestEngine_CachesBoundValidators(t *testing.T) {
	var binds atomic.Int32
	counting := constraint.Definition{
		Name: "counted",
		ValidateParam: func(any, string, string) error {
			binds.Add(1)
			return nil
		},
		Validate: constraint.Func1(func(*constraint.Scope, any) (bool, error) { return true, nil }),
	}

	rules := "entities:\n  user:\n    name: [counted]\n    email: [counted]\n"
	e := newEngine(t, rules, checker.WithDefinitions(counting), checker.WithCacheSize(8))
	prepared := binds.Load()
	assert.Equal(t, int32(2), prepared)

	ctx := context.Background()
	for range 5 {
		require.NoError(t, e.Check(ctx, "user", user{}))
	}
	assert.Equal(t, prepared+2, binds.Load())
	assert.Equal(t, 2, e.Cached())

	t.Run("reload drops the cache", func(t *testing.T) {
		rs, err := checker.ParseRuleset([]byte("entities:\n  user:\n    name: [counted]\n"))
		require.NoError(t, err)
		require.NoError(t, e.Reload(rs))
		assert.Equal(t, 0, e.Cached())

		require.NoError(t, e.Check(ctx, "user", user{}))
		assert.Equal(t, 1, e.Cached())
		assert.Same(t, rs, e.Ruleset())
	})

	t.Run("reload keeps the old ruleset on error", func(t *testing.T) {
		before := e.Ruleset()
		rs, err := checker.ParseRuleset([]byte("entities:\n  user:\n    name: [missing]\n"))
		require.NoError(t, err)
		assert.ErrorIs(t, e.Reload(rs), checker.ErrUnknownRule)
		assert.Same(t, before, e.Ruleset())
	})

	t.Run("evicts beyond capacity", func(t *testing.T) {
		small := newEngine(t, rules, checker.WithDefinitions(counting), checker.WithCacheSize(1))
		require.NoError(t, small.Check(ctx, "user", user{}))
		assert.Equal(t, 1, small.Cached())
	})
}

func TestEngine_RejectsBadParametersUpFront(t *testing.T) {
	rs, err := checker.ParseRuleset([]byte("entities:\n  user:\n    name:\n      - rule: minLength\n        param: lots\n"))
	require.NoError(t, err)

	_, err = checker.NewEngine(rs)
	assert.ErrorIs(t, err, checker.ErrInvalidRuleset)
	assert.ErrorIs(t, err, constraint.ErrInvalidParameter)
}

func TestEngine_PredicateFault(t *testing.T) {
	boom := errors.New("boom")
	faulty := constraint.Definition{
		Name:     "faulty",
		Validate: constraint.Func0(func(*constraint.Scope) (bool, error) { return false, boom }),
	}

	reg := prometheus.NewRegistry()
	m, err := checker.NewMetrics(reg)
	require.NoError(t, err)

	e := newEngine(t, "entities:\n  user:\n    name: [faulty]\n",
		checker.WithDefinitions(faulty), checker.WithMetrics(m))

	err = e.Check(context.Background(), "user", user{})
	assert.ErrorIs(t, err, constraint.ErrPredicateFault)
	assert.ErrorIs(t, err, boom)
	assert.False(t, constraint.IsValidationError(err))

	expected := `
# HELP rulekit_predicate_faults_total Rule evaluations aborted by a predicate error.
# TYPE rulekit_predicate_faults_total counter
rulekit_predicate_faults_total{rule="faulty"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "rulekit_predicate_faults_total"))

	_, err = checker.NewMetrics(reg)
	assert.Error(t, err, "counters cannot be registered twice")
}

func TestEngine_Metrics(t *testing.T) {
	m, err := checker.NewMetrics(nil)
	require.NoError(t, err)
	e := newEngine(t, userRules, checker.WithMetrics(m))

	_ = e.Check(context.Background(), "user", user{Email: "bad", Name: "Ann", Role: "admin"})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Validations.WithLabelValues("email", checker.OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Validations.WithLabelValues("required", checker.OutcomePassed)))
}

func TestEngine_PersistentRules(t *testing.T) {
	rules := "entities:\n  user:\n    email:\n      - rule: unique\n        param: users\n"
	rs, err := checker.ParseRuleset([]byte(rules))
	require.NoError(t, err)

	t.Run("unavailable without resources", func(t *testing.T) {
		_, err := checker.NewEngine(rs)
		assert.ErrorIs(t, err, checker.ErrUnknownRule)
	})

	t.Run("queries the session factory", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()

		res := resource.NewRegistry()
		res.MustRegister(resource.SessionFactory, db)

		e, err := checker.NewEngine(rs, checker.WithResources(res))
		require.NoError(t, err)

		sqlMock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM users WHERE email = ? AND id <> ?)").
			WithArgs("ann@example.com", int64(4)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err = e.Check(context.Background(), "user", user{ID: 4, Email: "ann@example.com"})
		errs := constraint.ExtractValidationErrors(err)
		require.Len(t, errs, 1)
		assert.Equal(t, "unique", errs[0].Rule)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestEngine_ConcurrentChecks(t *testing.T) {
	e := newEngine(t, userRules, checker.WithCacheSize(2))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := user{Email: "ann@example.com", Name: "Ann", Role: "member"}
			if i%2 == 0 {
				u.Email = "nope"
			}
			err := e.Check(ctx, "user", u)
			if i%2 == 0 {
				assert.True(t, constraint.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
