package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/resource"
)

// Session is an open backend registered as a session factory.
type Session struct {
	Driver Driver
	// Bean is the registered session: *pgxpool.Pool, *mongo.Database or
	// *redis.Client. It is nil for DriverNone.
	Bean        any
	healthcheck func(context.Context) error
	close       func(context.Context) error
}

// Healthcheck verifies the backend is reachable. It always succeeds for DriverNone.
func (s *Session) Healthcheck(ctx context.Context) error {
	if s == nil || s.healthcheck == nil {
		return nil
	}
	return s.healthcheck(ctx)
}

// Close releases the backend.
func (s *Session) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects the configured driver and registers the session under
// resource.SessionFactory. DriverNone registers nothing.
func Open(ctx context.Context, cfg Config, reg *resource.Registry, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component("session"), slog.String("driver", string(cfg.Driver)))

	s := &Session{Driver: cfg.Driver}
	switch cfg.Driver {
	case DriverNone:
		log.DebugContext(ctx, "no session driver configured")
		return s, nil

	case DriverPostgres:
		pool, err := OpenPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		s.Bean = pool
		s.healthcheck = PostgresHealthcheck(pool)
		s.close = func(context.Context) error { pool.Close(); return nil }

	case DriverMongo:
		db, err := OpenMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s.Bean = db
		s.healthcheck = MongoHealthcheck(db.Client())
		s.close = db.Client().Disconnect

	case DriverRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.Bean = client
		s.healthcheck = RedisHealthcheck(client)
		s.close = func(context.Context) error { return client.Close() }

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	if err := reg.Register(resource.SessionFactory, s.Bean); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	log.InfoContext(ctx, "session factory registered", logger.Resource(resource.SessionFactory))
	return s, nil
}
