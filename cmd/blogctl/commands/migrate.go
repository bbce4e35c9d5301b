package commands

import (
	"fmt"

	"blogapi/internal/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema",
	Long: `Create or update the users, posts and comments tables, including the
ON DELETE CASCADE foreign keys.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)
		return runMigrate(cmd, db)
	},
}

func runMigrate(cmd *cobra.Command, db *gorm.DB) error {
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	for _, m := range database.Models() {
		if verbose {
			cmd.Printf("migrated %T\n", m)
		}
	}
	cmd.Println("Schema is up to date")
	return nil
}
