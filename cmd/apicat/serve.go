package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chiTransport "github.com/kailas-cloud/apicat/internal/transport/chi"
	"github.com/kailas-cloud/apicat/internal/usecase/browse"
	"github.com/kailas-cloud/apicat/internal/version"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browsing API to local UI clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), root, port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides http.port)")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, port int) error {
	a, err := newApp(ctx, root, root.env)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg
	if port > 0 {
		cfg.HTTP.Port = port
	}

	a.logger.Info("Starting apicat API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", root.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.BaseURL),
		zap.String("workspace", cfg.Catalog.Workspace),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	session := browse.NewSession(a.client.Authenticated())
	ctrl := browse.New(a.catalog, session, a.logger)
	defer ctrl.Close()

	server := chiTransport.NewServer(ctrl, a.catalog, a.health())
	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, a.logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	a.logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}
