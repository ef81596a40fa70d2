// Package httpserver runs the HTTP endpoint a node exposes to its peer, with
// configurable timeouts, graceful shutdown on context cancellation and a
// health-check handler for the link's reachability probe.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithAddr(node.ListenAddr),
//		httpserver.WithLogger(log),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Errors are joined with ErrStart or ErrShutdown for errors.Is checks.
package httpserver
