package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/hnfetch/health"
	"github.com/jonwraymond/hnfetch/observe"
)

// newAdminHandler routes the health probes and the metrics endpoint.
// Access logs go to accessLog in combined log format.
func newAdminHandler(agg *health.Aggregator, gatherer promclient.Gatherer, accessLog io.Writer) http.Handler {
	r := mux.NewRouter()
	health.RegisterHandlers(r, agg)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.CombinedLoggingHandler(accessLog, h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)
	return h
}

// serveAdmin serves h on addr until ctx is done, then shuts down gracefully.
func serveAdmin(ctx context.Context, addr string, h http.Handler, logger observe.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "admin server listening", observe.F("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("admin server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("admin server shutdown: %w", err)
	}
	return nil
}
