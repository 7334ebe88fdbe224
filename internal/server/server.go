// Package server owns the listen, serve and shutdown lifecycle of the HTTP
// and gRPC endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/estoque/pkg/grpc"
	"github.com/shashiranjanraj/estoque/pkg/logger"
)

// Config selects the listeners.
type Config struct {
	Addr            string // HTTP, e.g. ":3000"
	GRPCPort        string // empty disables gRPC
	ShutdownTimeout time.Duration
	// OnShutdown runs when shutdown starts, to end long-lived streams.
	OnShutdown []func()
}

// Run serves until ctx is canceled, then drains HTTP, stops gRPC and
// returns. A listener failure ends Run early with that error.
func Run(ctx context.Context, cfg Config, handler http.Handler, storage grpc.Pinger) error {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	for _, fn := range cfg.OnShutdown {
		srv.RegisterOnShutdown(fn)
	}

	if cfg.GRPCPort != "" {
		grpcSrv, _, err := grpc.Start(cfg.GRPCPort, storage)
		if err != nil {
			return err
		}
		defer grpc.Stop(grpcSrv)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("estoque running", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
