package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Option configures a Handle.
type Option func(*Handle)

// WithFlushOnWrite makes Exec run statements immediately instead of queueing them.
func WithFlushOnWrite(enabled bool) Option {
	return func(h *Handle) { h.flushOnWrite = enabled }
}

// WithPlaceholder overrides the bind parameter style used by SQL helpers.
// Defaults to $N for pgx sessions and ? for database/sql sessions.
func WithPlaceholder(p sq.PlaceholderFormat) Option {
	return func(h *Handle) {
		if p != nil {
			h.placeholder = p
		}
	}
}

type statement struct {
	query string
	args  []any
}

// Handle is a convenience wrapper over a session factory.
type Handle struct {
	session      any
	pgx          SQLQuerier
	db           DBQuerier
	docs         CollectionSource
	members      SetMember
	flushOnWrite bool
	placeholder  sq.PlaceholderFormat

	mu      sync.Mutex
	pending []statement
}

// NewHandle wraps session. It fails with ErrUnsupportedSession when session
// offers none of the known capabilities.
func NewHandle(session any, opts ...Option) (*Handle, error) {
	h := &Handle{session: session}

	switch s := session.(type) {
	case SQLQuerier:
		h.pgx = s
		h.placeholder = sq.Dollar
	case DBQuerier:
		h.db = s
		h.placeholder = sq.Question
	case *mongo.Database:
		h.docs = mongoDatabase{db: s}
	case CollectionSource:
		h.docs = s
	case SetMember:
		h.members = s
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSession, session)
	}

	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Session returns the wrapped session factory.
func (h *Handle) Session() any { return h.session }

// FlushOnWrite reports whether Exec runs statements immediately.
func (h *Handle) FlushOnWrite() bool { return h.flushOnWrite }

// SQL reports whether the session speaks SQL.
func (h *Handle) SQL() bool { return h.pgx != nil || h.db != nil }

// Lookup describes an existence query: rows in Table whose Column equals
// Value, optionally ignoring rows whose ExcludeColumn equals ExcludeValue.
type Lookup struct {
	Table         string
	Column        string
	Value         any
	ExcludeColumn string
	ExcludeValue  any
}

func (l Lookup) build() (sq.SelectBuilder, error) {
	for _, id := range []string{l.Table, l.Column} {
		if !identifierRe.MatchString(id) {
			return sq.SelectBuilder{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
		}
	}

	for _, v := range []any{l.Value, l.ExcludeValue} {
		if !scalar(v) {
			return sq.SelectBuilder{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
		}
	}

	q := sq.Select("1").From(l.Table).Where(sq.Eq{l.Column: l.Value})
	if l.ExcludeColumn != "" && l.ExcludeValue != nil {
		if !identifierRe.MatchString(l.ExcludeColumn) {
			return sq.SelectBuilder{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, l.ExcludeColumn)
		}
		q = q.Where(sq.NotEq{l.ExcludeColumn: l.ExcludeValue})
	}
	return q, nil
}

// scalar rejects slices and maps, which squirrel would expand into IN lists.
// Byte slices are column values and pass.
func scalar(v any) bool {
	if v == nil {
		return true
	}
	if _, ok := v.([]byte); ok {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return false
	}
	return true
}

// ExistsQuery renders the SQL Exists would run. Requires a SQL session.
func (h *Handle) ExistsQuery(l Lookup) (string, []any, error) {
	if !h.SQL() {
		return "", nil, fmt.Errorf("%w: exists needs a sql session", ErrUnsupportedOperation)
	}
	q, err := l.build()
	if err != nil {
		return "", nil, err
	}
	sub, args, err := q.ToSql()
	if err != nil {
		return "", nil, err
	}
	query, err := h.placeholder.ReplacePlaceholders("SELECT EXISTS(" + sub + ")")
	if err != nil {
		return "", nil, err
	}
	return query, args, nil
}

// Exists reports whether any row matches l. Requires a SQL session.
func (h *Handle) Exists(ctx context.Context, l Lookup) (bool, error) {
	query, args, err := h.ExistsQuery(l)
	if err != nil {
		return false, err
	}

	var found bool
	if h.pgx != nil {
		err = h.pgx.QueryRow(ctx, query, args...).Scan(&found)
	} else {
		err = h.db.QueryRowContext(ctx, query, args...).Scan(&found)
	}
	if err != nil {
		return false, errors.Join(ErrQueryFailed, err)
	}
	return found, nil
}

// Exec runs a write statement, or queues it until Flush when flush-on-write
// is disabled.
func (h *Handle) Exec(ctx context.Context, query string, args ...any) error {
	if !h.SQL() {
		return fmt.Errorf("%w: exec needs a sql session", ErrUnsupportedOperation)
	}
	if !h.flushOnWrite {
		h.mu.Lock()
		h.pending = append(h.pending, statement{query: query, args: args})
		h.mu.Unlock()
		return nil
	}
	return h.exec(ctx, statement{query: query, args: args})
}

// Flush runs queued statements in order. It stops at the first failure and
// keeps the failed statement and everything after it queued.
func (h *Handle) Flush(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for len(h.pending) > 0 {
		if err := h.exec(ctx, h.pending[0]); err != nil {
			return err
		}
		h.pending = h.pending[1:]
	}
	h.pending = nil
	return nil
}

// Pending returns the number of queued statements.
func (h *Handle) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

func (h *Handle) exec(ctx context.Context, st statement) error {
	var err error
	if h.pgx != nil {
		_, err = h.pgx.Exec(ctx, st.query, st.args...)
	} else {
		_, err = h.db.ExecContext(ctx, st.query, st.args...)
	}
	if IsDuplicateKeyError(err) {
		return errors.Join(ErrQueryFailed, ErrDuplicateKey, err)
	}
	if err != nil {
		return errors.Join(ErrQueryFailed, err)
	}
	return nil
}

// CountDocuments counts documents in collection matching filter. Requires a mongo session.
func (h *Handle) CountDocuments(ctx context.Context, collection string, filter any) (int64, error) {
	if h.docs == nil {
		return 0, fmt.Errorf("%w: count needs a document session", ErrUnsupportedOperation)
	}
	n, err := h.docs.Counter(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, errors.Join(ErrQueryFailed, err)
	}
	return n, nil
}

// IsMember reports whether member belongs to the set at key. Requires a redis session.
func (h *Handle) IsMember(ctx context.Context, key string, member any) (bool, error) {
	if h.members == nil {
		return false, fmt.Errorf("%w: membership needs a redis session", ErrUnsupportedOperation)
	}
	ok, err := h.members.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, errors.Join(ErrQueryFailed, err)
	}
	return ok, nil
}
