// Package cmd contains the news-portal CLI commands.
package cmd

import (
	"fmt"

	"news-portal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd runs the HTTP server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "news-portal",
	Short: "News portal REST backend",
	Long: `news-portal serves the news portal API.

Example usage:
  news-portal                      # same as "serve"
  news-portal serve                # start the HTTP server
  news-portal migrate              # create or update the schema
  news-portal user create --email admin@example.com --name admin --password 'S3cret!pw' --role admin
  news-portal user set-role --email someone@example.com --role editor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addServeFlags(rootCmd)
}

// initConfig loads the environment and builds the logger.
func initConfig() error {
	var err error

	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err = config.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	return nil
}
