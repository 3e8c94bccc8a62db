// Package cmd holds the john-henry command line: the API server and its maintenance tasks.
package cmd

import (
	"fmt"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/database"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var envFile string

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "john-henry",
		Short: "John Henry Fashion commerce API",
		Long: `john-henry runs the storefront, seller center and back-office API.

Configuration is read from the environment, optionally preloaded from --env.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedCommand(),
		newSettleCommand(),
		newExportProductsCommand(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// bootstrap loads config, the logger singleton and a database handle.
func bootstrap() (*config.Config, logger.Logger, *gorm.DB, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.InitLogger(&cfg.Logger); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log, err := logger.GetLogger()
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	return cfg, log, db, nil
}
