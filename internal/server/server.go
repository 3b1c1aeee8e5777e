// Package server runs the HTTP server until its context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds the graceful drain after the context ends.
const ShutdownTimeout = 5 * time.Second

// Config describes one listening server.
type Config struct {
	Addr    string
	Handler http.Handler
	// TLSCert and TLSKey switch the server to HTTPS when both are set.
	TLSCert string
	TLSKey  string
	Logger  *zap.Logger
}

// Run listens on cfg.Addr and serves until ctx is cancelled, then shuts
// down gracefully.
func Run(ctx context.Context, cfg Config) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	return Serve(ctx, ln, cfg)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, ln net.Listener, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: cfg.Handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	tls := cfg.TLSCert != "" && cfg.TLSKey != ""
	eg.Go(func() error {
		logger.Info("starting HTTP server", zap.String("addr", ln.Addr().String()), zap.Bool("tls", tls))
		var err error
		if tls {
			err = srv.ServeTLS(ln, cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
