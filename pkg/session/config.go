package session

import (
	"fmt"
	"strings"
	"time"
)

// Driver names a session backend.
type Driver string

const (
	DriverNone     Driver = ""
	DriverPostgres Driver = "postgres"
	DriverMongo    Driver = "mongo"
	DriverRedis    Driver = "redis"
)

// ParseDriver accepts driver names case-insensitively, plus the aliases pg,
// postgresql and mongodb.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DriverNone, nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	case "mongo", "mongodb":
		return DriverMongo, nil
	case "redis":
		return DriverRedis, nil
	default:
		return DriverNone, fmt.Errorf("%w: %q", ErrUnknownDriver, s)
	}
}

func (d *Driver) UnmarshalText(text []byte) error {
	parsed, err := ParseDriver(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Config selects a driver and holds the settings of every backend.
type Config struct {
	Driver   Driver         `env:"DRIVER"`
	Postgres PostgresConfig `envPrefix:"PG_"`
	Mongo    MongoConfig    `envPrefix:"MONGO_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
}

type PostgresConfig struct {
	ConnectionString  string        `env:"CONN_URL"`                         // ConnectionString is the connection string to the database.
	MaxOpenConns      int32         `env:"MAX_OPEN_CONNS" envDefault:"10"`   // MaxOpenConns is the maximum number of open connections to the database.
	MaxIdleConns      int32         `env:"MAX_IDLE_CONNS" envDefault:"2"`    // MaxIdleConns is the number of connections kept open when idle.
	HealthCheckPeriod time.Duration `env:"HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"RETRY_INTERVAL" envDefault:"5s"`
}

type MongoConfig struct {
	ConnectionURL   string        `env:"URL"`
	Database        string        `env:"DATABASE" envDefault:"rulekit"`
	ConnectTimeout  time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize     uint64        `env:"MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryAttempts   int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"RETRY_INTERVAL" envDefault:"5s"`
}

type RedisConfig struct {
	ConnectionURL  string        `env:"URL" envDefault:"redis://localhost:6379/0"` // redis://:password@localhost:6379/0
	RetryAttempts  int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"30s"`
}
