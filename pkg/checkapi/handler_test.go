package checkapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/checkapi"
	"github.com/dmitrymomot/rulekit/pkg/checker"
	"github.com/dmitrymomot/rulekit/pkg/constraint"
)

const rules = `
entities:
  user:
    email: [required, email]
    age:
      - rule: range
        param: [18, 130]
`

func newEngine(t *testing.T, opts ...checker.Option) *checker.Engine {
	t.Helper()
	rs, err := checker.ParseRuleset([]byte(rules))
	require.NoError(t, err)
	e, err := checker.NewEngine(rs, opts...)
	require.NoError(t, err)
	return e
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, checkapi.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp checkapi.Response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestValidate(t *testing.T) {
	h := checkapi.NewRouter(newEngine(t))

	t.Run("valid body", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodPost, "/validate/user", `{"email":"ann@example.com","age":30}`)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("violations", func(t *testing.T) {
		rec, resp := do(t, h, http.MethodPost, "/validate/user", `{"email":"nope","age":12}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

		require.NotNil(t, resp.Error)
		assert.Equal(t, "validation_error", resp.Error.Code)
		assert.Len(t, resp.Error.Details["email"], 1)
		assert.Len(t, resp.Error.Details["age"], 1)

		list, ok := resp.Data.([]any)
		require.True(t, ok)
		assert.Len(t, list, 2)
	})

	t.Run("unknown entity", func(t *testing.T) {
		rec, resp := do(t, h, http.MethodPost, "/validate/order", `{}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "unknown_entity", resp.Error.Code)
	})

	t.Run("bad bodies", func(t *testing.T) {
		for _, body := range []string{"", "[1,2]", "{", "null"} {
			rec, resp := do(t, h, http.MethodPost, "/validate/user", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, body)
			assert.Equal(t, "invalid_json", resp.Error.Code, body)
		}
	})

	t.Run("body too large", func(t *testing.T) {
		small := checkapi.NewRouter(newEngine(t), checkapi.WithMaxBodySize(8))
		rec, resp := do(t, small, http.MethodPost, "/validate/user", `{"email":"ann@example.com"}`)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "body_too_large", resp.Error.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodGet, "/validate/user", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

type mockChecker struct {
	mock.Mock
}

func (m *mockChecker) Validate(ctx context.Context, entity string, target any) (constraint.ValidationErrors, error) {
	args := m.Called(entity, target)
	errs, _ := args.Get(0).(constraint.ValidationErrors)
	return errs, args.Error(1)
}

func (m *mockChecker) Ruleset() *checker.Ruleset {
	return m.Called().Get(0).(*checker.Ruleset)
}

func TestValidate_Fault(t *testing.T) {
	c := &mockChecker{}
	c.On("Validate", "user", map[string]any{"email": "x"}).
		Return(nil, errors.Join(constraint.ErrPredicateFault, errors.New("db down")))

	rec, resp := do(t, checkapi.NewRouter(c), http.MethodPost, "/validate/user", `{"email":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", resp.Error.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
	c.AssertExpectations(t)
}

func TestEntities(t *testing.T) {
	rec, resp := do(t, checkapi.NewRouter(newEngine(t)), http.MethodGet, "/entities", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"user"}, resp.Data)
}

func TestHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		h := checkapi.NewRouter(newEngine(t), checkapi.WithHealthcheck(func(context.Context) error { return nil }))
		rec, resp := do(t, h, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{"status": "ok"}, resp.Data)
	})

	t.Run("not ready", func(t *testing.T) {
		h := checkapi.NewRouter(newEngine(t), checkapi.WithHealthcheck(func(context.Context) error { return errors.New("ping failed") }))
		rec, resp := do(t, h, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not_ready", resp.Error.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := checker.NewMetrics(reg)
	require.NoError(t, err)

	h := checkapi.NewRouter(newEngine(t, checker.WithMetrics(m)), checkapi.WithMetrics(reg))
	do(t, h, http.MethodPost, "/validate/user", `{"email":"nope"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `rulekit_validations_total{outcome="rejected",rule="email"} 1`)

	rec = httptest.NewRecorder()
	checkapi.NewRouter(newEngine(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestID(t *testing.T) {
	_, ok := checkapi.RequestID(context.Background())
	assert.False(t, ok)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	attr, ok := checkapi.RequestID(ctx)
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-1", attr.Value.String())
}
