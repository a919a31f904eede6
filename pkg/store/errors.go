package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	// ErrUnsupportedSession is returned when NewHandle receives a value with no known capability.
	ErrUnsupportedSession = errors.New("unsupported session factory")

	// ErrUnsupportedOperation is returned when a helper needs a capability the session lacks.
	ErrUnsupportedOperation = errors.New("operation not supported by session factory")

	// ErrInvalidIdentifier is returned for table or column names that are not plain identifiers.
	ErrInvalidIdentifier = errors.New("invalid sql identifier")

	// ErrQueryFailed wraps driver errors raised by helper queries.
	ErrQueryFailed = errors.New("store query failed")

	// ErrDuplicateKey is joined into write errors caused by a unique index violation.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnsupportedValue is returned when a lookup value is a slice or a map.
	ErrUnsupportedValue = errors.New("lookup value must be scalar")
)

// IsDuplicateKeyError detects PostgreSQL unique violations (SQLSTATE 23505)
// and MongoDB duplicate key errors.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return mongo.IsDuplicateKeyError(err)
}
