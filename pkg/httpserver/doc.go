// Package httpserver runs an HTTP server bound to a context.
//
//	srv := httpserver.New(cfg.HTTP, router, httpserver.WithLogger(log))
//	if err := srv.Run(ctx); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Cancelling ctx triggers a graceful shutdown limited by ShutdownTimeout,
// after which the registered shutdown hooks run.
package httpserver
