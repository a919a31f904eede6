package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/rulekit/pkg/checkapi"
	"github.com/dmitrymomot/rulekit/pkg/checker"
	"github.com/dmitrymomot/rulekit/pkg/httpserver"
	"github.com/dmitrymomot/rulekit/pkg/logger"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed(FlagAddr) {
				cfg.HTTP.Addr = addr
			}
			log := newLogger(cfg, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics, err := checker.NewMetrics(reg)
			if err != nil {
				return err
			}

			a, err := newApp(ctx, cfg, log, checker.WithMetrics(metrics))
			if err != nil {
				return err
			}
			defer a.Close(context.WithoutCancel(ctx))

			go a.reloadOnHangup(ctx)

			router := checkapi.NewRouter(a.engine,
				checkapi.WithLogger(log),
				checkapi.WithHealthcheck(a.session.Healthcheck),
				checkapi.WithMetrics(reg),
			)
			return httpserver.New(cfg.HTTP, router, log).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, FlagAddr, "", "Network - address to listen on (env RULEKIT_HTTP_ADDR)")
	return cmd
}

// reloadOnHangup re-reads the ruleset file on SIGHUP until ctx is done.
func (a *app) reloadOnHangup(ctx context.Context) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := a.reload(); err != nil {
				a.log.ErrorContext(ctx, "ruleset reload failed", slog.String("path", a.cfg.Ruleset), logger.Error(err))
			}
		}
	}
}

func (a *app) reload() error {
	rs, err := loadRuleset(a.cfg.Ruleset)
	if err != nil {
		return err
	}
	return a.engine.Reload(rs)
}
