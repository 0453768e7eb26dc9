package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/localmodel/gateway/pkg/config"
	"github.com/localmodel/gateway/pkg/gateway"
	"github.com/localmodel/gateway/pkg/httpapi"
	"github.com/localmodel/gateway/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func newRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the gateway's HTTP surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := newLogger(cfg.LogLevel, cfg.LogFormat)
			router := gateway.NewRouter(log, cfg)
			server := httpapi.NewServer(log, cfg, router)
			httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: server}

			return runWithGracefulShutdown(cmd.Context(), log, httpServer)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to gateway.yaml (defaults baked in if omitted)")
	return cmd
}

// runWithGracefulShutdown runs httpServer until ctx is canceled or a
// SIGINT/SIGTERM is received, then drains in-flight requests before
// returning. The two goroutines (serve, wait-for-signal-then-shutdown)
// are coordinated with an errgroup so either one's error is propagated
// and the other is unblocked in turn.
func runWithGracefulShutdown(ctx context.Context, log logging.Logger, httpServer *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("gatewayd listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down gatewayd")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newLogger(level, format string) logging.Logger {
	l := logrus.New()
	if parsed, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(parsed)
	}
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return logging.NewLogrusAdapter(l)
}
