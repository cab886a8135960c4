package main

import (
	"fmt"
	"os"

	"github.com/proofly-ai/proofly/pkg/config"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "proofly",
		Short:   "Proofly grammar-check orchestration and caching service",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newCheckCmd(),
		newAuditCmd(),
		newCacheCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file if given, otherwise falls back to
// defaults plus environment variables.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
