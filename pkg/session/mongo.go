package session

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// OpenMongo connects a client and returns the configured database.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*mongo.Database, error) {
	if cfg.ConnectionURL == "" {
		return nil, fmt.Errorf("%w: mongo", ErrEmptyConnectionString)
	}

	opts := options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)

	var lastErr error
	for i := range max(cfg.RetryAttempts, 1) {
		client, err := mongo.Connect(opts)
		if err != nil {
			// Connect fails only on bad options, which retrying cannot fix.
			return nil, errors.Join(ErrFailedToParseConfig, err)
		}
		if err = client.Ping(ctx, nil); err == nil {
			return client.Database(cfg.Database), nil
		}
		_ = client.Disconnect(context.WithoutCancel(ctx))
		lastErr = err

		if werr := wait(ctx, i+1, cfg.RetryInterval); werr != nil {
			return nil, errors.Join(ErrFailedToConnect, lastErr, werr)
		}
	}

	return nil, errors.Join(ErrFailedToConnect, lastErr)
}

// MongoHealthcheck pings the client.
func MongoHealthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
