package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects a client within cfg.ConnectTimeout.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, fmt.Errorf("%w: redis", ErrEmptyConnectionString)
	}
	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseConfig, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var lastErr error
	for i := range max(cfg.RetryAttempts, 1) {
		client := redis.NewClient(opt)
		err := client.Ping(ctx).Err()
		if err == nil {
			return client, nil
		}
		_ = client.Close()
		lastErr = err

		if werr := wait(ctx, i+1, cfg.RetryInterval); werr != nil {
			return nil, errors.Join(ErrFailedToConnect, lastErr, werr)
		}
	}

	return nil, errors.Join(ErrFailedToConnect, lastErr)
}

// RedisHealthcheck pings the client.
func RedisHealthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if _, err := client.Ping(ctx).Result(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
