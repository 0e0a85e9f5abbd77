package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/regwatch/regwatch-mcp/internal/apiclient"
	"github.com/regwatch/regwatch-mcp/internal/lawstore"
	"github.com/regwatch/regwatch-mcp/internal/logger"
	"github.com/regwatch/regwatch-mcp/internal/mcp"
	"github.com/regwatch/regwatch-mcp/internal/regquery"
	"github.com/regwatch/regwatch-mcp/internal/tools"
	"github.com/regwatch/regwatch-mcp/internal/tools/laws"
	"github.com/regwatch/regwatch-mcp/internal/watcher"
)

func newServeCmd() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools on stdin/stdout",
		Long: `Runs the MCP server on stdin/stdout. By default queries run against
the embedded SQLite database; with --remote they are forwarded to the
hosted REST API configured under api: (or REGWATCH_API_URL/_KEY).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logger.ForComponent("serve")

			var svc regquery.Service
			if remote {
				if cfg.API.BaseURL == "" {
					return fmt.Errorf("--remote requires api.base_url (or REGWATCH_API_URL)")
				}
				svc = apiclient.NewClient(cfg.API.BaseURL, cfg.API.Key)
				log.Info("serving against remote API", "base_url", cfg.API.BaseURL)
			} else {
				if err := cfg.EnsureDirectories(); err != nil {
					return err
				}
				store, err := lawstore.Open(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("open law store: %w", err)
				}
				defer store.Close()

				svc = regquery.NewEngine(store)
				log.Info("serving against embedded store", "db", cfg.DBPath)

				if cfg.Watch.Enabled {
					w, err := watcher.New(cfg.Watch, cfg.SeedDir, func(events []watcher.FileEvent) {
						if _, err := store.SeedDir(ctx, cfg.SeedDir, true); err != nil {
							log.Error("seed reload failed", "error", err)
						}
					})
					if err != nil {
						return fmt.Errorf("create watcher: %w", err)
					}
					if err := w.Start(ctx); err != nil {
						return fmt.Errorf("start watcher: %w", err)
					}
					defer w.Stop()
				}
			}

			registry := tools.NewRegistry()
			for _, tool := range laws.GetTools(svc) {
				if err := registry.Register(tool); err != nil {
					return err
				}
			}

			server := mcp.NewServer(registry)
			if err := server.ServeStdio(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "forward queries to the hosted REST API")
	return cmd
}
