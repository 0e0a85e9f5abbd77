package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/regwatch/regwatch-mcp/internal/httpapi"
	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/logger"
	"github.com/regwatch/regwatch-mcp/internal/regquery"
)

func newServeHTTPCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-http",
		Short: "Serve the REST API over the embedded store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = cfg.HTTPAddr
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			store, err := lawstore.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open law store: %w", err)
			}
			defer store.Close()

			api := httpapi.NewServer(regquery.NewEngine(store), cfg.HTTPToken)
			server := &http.Server{
				Addr:              addr,
				Handler:           api.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			log := logger.ForComponent("serve-http")
			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", "addr", addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
