// Package main implements the skillpath-api command: the HTTP server for
// the career-guidance API plus maintenance commands for the response cache
// and one-off calls through the AI gateway.
package main

import (
	"fmt"
	"os"

	"github.com/phrazzld/skillpath-api/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "skillpath-api",
		Short:        "SkillPath career-guidance API",
		Long:         "SkillPath serves AI-generated career guidance over HTTP through a bounded, retrying gateway.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "path to a config file (env vars override it)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newTokenCmd(),
		newAskCmd(),
	)
	return root
}

// loadConfig reads configuration from the --config file when given,
// otherwise from the environment alone.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
