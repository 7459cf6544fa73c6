package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/plata/internal/api"
	"github.com/Veraticus/plata/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API used by the chat platform bridges",
		Long: `Start the HTTP API. Bridges for Telegram and WhatsApp forward user messages
to /v1/messages and /v1/audio, and button presses to /v1/pending/{id}/confirm
or /v1/pending/{id}/cancel. Prometheus metrics are served on /metrics.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	c, err := buildAssistant(ctx, logger)
	if err != nil {
		return err
	}
	defer c.close()

	serverCfg := config.LoadServerConfig(viper.GetViper())
	router := api.NewRouter(c.assistant, api.Config{
		Token:   viper.GetString("server.token"),
		Timeout: viper.GetDuration("server.request_timeout"),
		Metrics: c.metrics.Handler(),
		Logger:  logger,
	})

	server := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", serverCfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server", "timeout", serverCfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
