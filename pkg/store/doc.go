// Package store wraps a persistence session factory in a small handle that
// persistence-aware constraints use to issue their queries.
//
// NewHandle accepts any of the supported session factories and detects what
// it can do by capability:
//
//   - SQLQuerier: *pgxpool.Pool, *pgx.Conn or pgx.Tx
//   - DBQuerier: *sql.DB, *sql.Tx
//   - CollectionSource or *mongo.Database
//   - SetMember: any go-redis client
//
// Helper methods such as Exists, CountDocuments and IsMember return
// ErrUnsupportedOperation when the wrapped factory lacks the capability they
// need. Session exposes the raw factory for anything the helpers do not cover.
//
// Writes issued through Exec run immediately when flush-on-write is enabled.
// Otherwise they are queued until Flush.
//
//	h, err := store.NewHandle(pool, store.WithFlushOnWrite(true))
//	taken, err := h.Exists(ctx, store.Lookup{
//	    Table:  "users",
//	    Column: "email",
//	    Value:  email,
//	})
package store
