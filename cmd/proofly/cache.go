package main

import (
	"context"
	"fmt"

	"github.com/proofly-ai/proofly/pkg/cache"
	"github.com/proofly-ai/proofly/pkg/provider"
	"github.com/spf13/cobra"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show provider usage counters and session totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, cleanup, err := openRedis(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			for _, p := range []string{provider.NameLanguageTool, provider.NameOpenAI, provider.NameOpenRouter} {
				n, err := r.UsageCount(ctx, p)
				if err != nil {
					return err
				}
				fmt.Printf("%-13s %d\n", p+":", n)
			}
			total, err := r.SessionTotal(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%-13s %d\n", "sessions:", total)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached check results",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, cleanup, err := openRedis(configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			deleted, err := r.Clear(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d cached results.\n", deleted)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

func openRedis(configPath string) (*cache.Redis, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Redis.Addr == "" {
		return nil, nil, fmt.Errorf("no redis address configured")
	}
	r := cache.NewRedis(cfg.Redis, cfg.Session.TTL)
	return r, func() { _ = r.Close() }, nil
}
