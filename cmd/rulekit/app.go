package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dmitrymomot/rulekit/pkg/checkapi"
	"github.com/dmitrymomot/rulekit/pkg/checker"
	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/messages"
	"github.com/dmitrymomot/rulekit/pkg/resource"
	"github.com/dmitrymomot/rulekit/pkg/session"
)

// app holds what every subcommand builds from Config.
type app struct {
	cfg     Config
	log     *slog.Logger
	engine  *checker.Engine
	session *session.Session
}

func newLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "rulekit"),
		logger.WithOutput(w),
		logger.WithContextExtractors(checkapi.RequestID),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevelName(cfg.LogLevel))
	}
	if cfg.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	}
	return logger.New(opts...)
}

func loadRuleset(path string) (*checker.Ruleset, error) {
	return checker.LoadRulesetFile(path)
}

// newApp opens the session, loads the ruleset and the message catalog and
// builds the engine. Close must be called on success.
func newApp(ctx context.Context, cfg Config, log *slog.Logger, extra ...checker.Option) (*app, error) {
	a := &app{cfg: cfg, log: log}

	reg := resource.NewRegistry()
	s, err := session.Open(ctx, cfg.Session, reg, log)
	if err != nil {
		return nil, err
	}
	a.session = s

	rs, err := loadRuleset(cfg.Ruleset)
	if err != nil {
		return nil, errors.Join(err, a.Close(ctx))
	}

	opts := []checker.Option{
		checker.WithLogger(log),
		checker.WithCacheSize(cfg.CacheSize),
	}
	if s.Bean != nil {
		opts = append(opts, checker.WithResources(reg))
	}
	if cfg.Messages != "" {
		cat, err := messages.LoadFile(cfg.Messages)
		if err != nil {
			return nil, errors.Join(err, a.Close(ctx))
		}
		opts = append(opts, checker.WithMessages(cat))
	}

	a.engine, err = checker.NewEngine(rs, append(opts, extra...)...)
	if err != nil {
		return nil, errors.Join(err, a.Close(ctx))
	}
	return a, nil
}

func (a *app) Close(ctx context.Context) error {
	return a.session.Close(ctx)
}
