package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-assist/internal/httpapi"
	"github.com/koscakluka/ema-assist/internal/logger"
	"github.com/koscakluka/ema-assist/internal/tracer"
)

const shutdownTimeout = 10 * time.Second

// serveCmd exposes conversations over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversations over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewZapLogger(cfg.Log.File, cfg.Log.Production)
	defer log.Close()

	shutdownTracing, err := tracer.Init(ctx, tracer.Options{
		Enabled:  cfg.Tracing.Enabled,
		Endpoint: cfg.Tracing.Endpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn(module, "failed to flush traces", map[string]any{"error": err.Error()})
		}
	}()

	rt, err := newRuntime(ctx, cfg, log)
	if err != nil {
		log.Error(module, "failed to start", map[string]any{"error": err})
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Warn(module, "failed to close stores", map[string]any{"error": err.Error()})
		}
	}()

	server := httpapi.NewServer(log, cfg.HTTP.Addr, rt.orchestrator)
	serveErr := make(chan error, 1)
	go func() {
		log.Info(module, "listening", map[string]any{"addr": cfg.HTTP.Addr})
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(module, "shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
