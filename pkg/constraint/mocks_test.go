package constraint_test

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/rulekit/pkg/constraint"
)

// MockProvider is a mock implementation of resource.Provider.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Acquire(name string) (any, bool) {
	args := m.Called(name)
	return args.Get(0), args.Bool(1)
}

// MockErrors is a mock implementation of constraint.Errors.
type MockErrors struct {
	mock.Mock
}

func (m *MockErrors) Reject(r constraint.Rejection) {
	m.Called(r)
}

type staticMessages map[string]string

func (s staticMessages) Message(code string) (string, bool) {
	msg, ok := s[code]
	return msg, ok
}

// fakeSession satisfies store.SQLQuerier.
type fakeSession struct{}

func (fakeSession) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (fakeSession) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
