// Package httpserver runs an http.Handler until its context is cancelled,
// then drains in-flight requests within a shutdown timeout.
//
//	srv := httpserver.New(cfg, router, log)
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := srv.Run(ctx); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
