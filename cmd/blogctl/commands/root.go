// Package commands implements the blogctl subcommands.
package commands

import (
	"fmt"
	"os"

	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Administrative tasks for the blog API",
	Long: `blogctl manages the blog database outside the HTTP API.

Commands:
  migrate      - Create or update the schema
  seed         - Fill the database with fake users, posts and comments
  delete-user  - Remove a user together with their posts and comments`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(migrateCmd, seedCmd, deleteUserCmd)
}

// openDB loads configuration and connects to the configured database.
// Redis is connected too so cached users are invalidated on writes.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cfg.RedisURL != "" {
		cache.InitRedis(cfg.RedisURL)
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = cache.Close()
}
