package store

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// SQLQuerier is the pgx query surface shared by pools, connections and transactions.
type SQLQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DBQuerier is the database/sql query surface shared by *sql.DB and *sql.Tx.
type DBQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DocumentCounter counts documents matching a filter. *mongo.Collection implements it.
type DocumentCounter interface {
	CountDocuments(ctx context.Context, filter any, opts ...options.Lister[options.CountOptions]) (int64, error)
}

// CollectionSource resolves a collection by name.
type CollectionSource interface {
	Counter(collection string) DocumentCounter
}

// SetMember checks set membership. Every go-redis client implements it.
type SetMember interface {
	SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd
}

type mongoDatabase struct {
	db *mongo.Database
}

func (m mongoDatabase) Counter(collection string) DocumentCounter {
	return m.db.Collection(collection)
}

// Collections adapts a plain function to CollectionSource.
type Collections func(collection string) DocumentCounter

func (f Collections) Counter(collection string) DocumentCounter { return f(collection) }
