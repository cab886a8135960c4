package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/proofly-ai/proofly/pkg/audit"
	"github.com/proofly-ai/proofly/pkg/cache"
	"github.com/proofly-ai/proofly/pkg/checker"
	"github.com/proofly-ai/proofly/pkg/config"
	"github.com/proofly-ai/proofly/pkg/provider"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the grammar-check HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store := newStore(cfg)
			defer func() { _ = store.Close() }()

			var auditor *audit.Logger
			if cfg.Audit.Enabled {
				auditor, err = audit.New(cfg.Audit)
				if err != nil {
					return fmt.Errorf("init audit log: %w", err)
				}
				defer func() { _ = auditor.Close() }()
			}

			svc := checker.New(store, provider.NewClients(cfg), auditor, cfg.Cache.TTL)
			srv := checker.NewServer(cfg.Listen, svc, store)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	return cmd
}

// newStore returns the Redis store when an address is configured,
// otherwise the no-op store.
func newStore(cfg *config.Config) cache.Store {
	if cfg.Redis.Addr == "" {
		log.Printf("no redis address configured, caching and session tracking disabled")
		return cache.Noop{}
	}
	return cache.NewRedis(cfg.Redis, cfg.Session.TTL)
}
