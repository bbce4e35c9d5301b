package commands

import (
	"fmt"

	"blogapi/internal/repository"
	"blogapi/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <username>",
	Short: "Delete a user with their posts and comments",
	Long: `Delete a user permanently. Their posts, every comment on those posts
and every comment they wrote elsewhere are removed with them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)
		return runDeleteUser(cmd, db, args[0])
	},
}

func runDeleteUser(cmd *cobra.Command, db *gorm.DB, username string) error {
	users := service.NewUserService(repository.NewUserRepository(db), repository.NewPostRepository(db))
	if err := users.DeleteUser(cmd.Context(), username); err != nil {
		return fmt.Errorf("delete %q: %w", username, err)
	}
	cmd.Printf("Deleted user %s\n", username)
	return nil
}
