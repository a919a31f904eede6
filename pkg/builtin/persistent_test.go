package builtin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/rulekit/pkg/builtin"
	"github.com/dmitrymomot/rulekit/pkg/constraint"
	"github.com/dmitrymomot/rulekit/pkg/resource"
	"github.com/dmitrymomot/rulekit/pkg/store"
)

type account struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func TestUnique(t *testing.T) {
	db, sqlMock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rc := session(db)
	param := map[string]any{"table": "accounts"}

	t.Run("new record with free value", func(t *testing.T) {
		sqlMock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM accounts WHERE email = ?)").
			WithArgs("free@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		ok, err := check(t, builtin.Unique(), rc, "email", param, account{Email: "free@example.com"}, "free@example.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("existing record excludes itself", func(t *testing.T) {
		sqlMock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM accounts WHERE email = ? AND id <> ?)").
			WithArgs("taken@example.com", int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := check(t, builtin.Unique(), rc, "email", param, &account{ID: 7, Email: "taken@example.com"}, "taken@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("custom column", func(t *testing.T) {
		sqlMock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM accounts WHERE login = ?)").
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		ok, err := check(t, builtin.Unique(), rc, "username",
			map[string]any{"table": "accounts", "column": "login"}, map[string]any{}, "bob")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("query failure is a fault", func(t *testing.T) {
		sqlMock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM accounts WHERE email = ?)").
			WithArgs("x@example.com").
			WillReturnError(errors.New("connection reset"))

		_, err := check(t, builtin.Unique(), rc, "email", param, nil, "x@example.com")
		assert.ErrorIs(t, err, constraint.ErrPredicateFault)
		assert.ErrorIs(t, err, store.ErrQueryFailed)
	})

	t.Run("empty value skips the query", func(t *testing.T) {
		ok, err := check(t, builtin.Unique(), rc, "email", param, nil, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("collection value is a fault", func(t *testing.T) {
		_, err := check(t, builtin.Unique(), rc, "email", param, nil, []any{"a@example.com", "b@example.com"})
		assert.ErrorIs(t, err, constraint.ErrPredicateFault)
		assert.ErrorIs(t, err, builtin.ErrUnsupportedValue)
	})

	require.NoError(t, sqlMock.ExpectationsWereMet())

	t.Run("no session factory", func(t *testing.T) {
		_, err := check(t, builtin.Unique(), resource.NewRegistry(), "email", "accounts", nil, "a@b.c")
		assert.ErrorIs(t, err, builtin.ErrNoSession)
	})

	t.Run("needs a table", func(t *testing.T) {
		c, err := constraint.Create(builtin.Unique(), rc)
		require.NoError(t, err)
		assert.ErrorIs(t, c.Bind("account", "email", map[string]any{"column": "email"}), builtin.ErrInvalidParam)
	})

	t.Run("requires a resource context", func(t *testing.T) {
		_, err := constraint.Create(builtin.Unique(), nil)
		assert.ErrorIs(t, err, constraint.ErrResourceContextRequired)
	})
}

type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error) {
	args := m.Called(filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestUniqueDocument(t *testing.T) {
	counter := &mockCounter{}
	var collection string
	rc := session(store.Collections(func(name string) store.DocumentCounter {
		collection = name
		return counter
	}))

	counter.On("CountDocuments", bson.M{"email": "a@b.c"}).Return(int64(0), nil).Once()
	counter.On("CountDocuments", bson.M{"email": "dup@b.c", "_id": bson.M{"$ne": int64(3)}}).Return(int64(1), nil).Once()

	ok, err := check(t, builtin.UniqueDocument(), rc, "email", "accounts", nil, "a@b.c")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "accounts", collection)

	ok, err = check(t, builtin.UniqueDocument(), rc, "email", "accounts", account{ID: 3}, "dup@b.c")
	require.NoError(t, err)
	assert.False(t, ok)

	counter.AssertExpectations(t)
}

type blocklist map[string]bool

func (b blocklist) SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd {
	return redis.NewBoolResult(b[key+"/"+member.(string)], nil)
}

func TestNotBlocked(t *testing.T) {
	rc := session(blocklist{"blocked:emails/spam@example.com": true})

	ok, err := check(t, builtin.NotBlocked(), rc, "email", "blocked:emails", nil, "spam@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = check(t, builtin.NotBlocked(), rc, "email", "blocked:emails", nil, "ham@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	t.Run("wrong session kind", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		_, err = check(t, builtin.NotBlocked(), session(db), "email", "blocked:emails", nil, "x@y.z")
		assert.ErrorIs(t, err, store.ErrUnsupportedOperation)
	})
}
