package main

import (
	"github.com/dmitrymomot/rulekit/pkg/httpserver"
	"github.com/dmitrymomot/rulekit/pkg/session"
)

// Config is read from RULEKIT_* environment variables; flags override it.
type Config struct {
	Env       string `env:"RULEKIT_ENV" envDefault:"development"`
	LogLevel  string `env:"RULEKIT_LOG_LEVEL"`
	LogFormat string `env:"RULEKIT_LOG_FORMAT"`

	Ruleset   string `env:"RULEKIT_RULESET" envDefault:"rules.yaml"`
	Messages  string `env:"RULEKIT_MESSAGES"`
	CacheSize int    `env:"RULEKIT_CACHE_SIZE" envDefault:"1024"`

	Session session.Config    `envPrefix:"RULEKIT_"`
	HTTP    httpserver.Config `envPrefix:"RULEKIT_"`
}
