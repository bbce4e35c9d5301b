package commands

import (
	"blogapi/internal/seed"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedOpts seed.Options

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with fake data",
	Long: `Create fake users, posts and comments. Every seeded user has the
password "password123".

Examples:
  blogctl seed --users 20 --posts 5 --comments 3
  blogctl seed --clean --users 5
  blogctl seed --dry-run --users 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)
		return runSeed(cmd, db, seedOpts)
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.NumUsers, "users", 10, "Number of users to create")
	seedCmd.Flags().IntVar(&seedOpts.PostsPerUser, "posts", 3, "Posts per user")
	seedCmd.Flags().IntVar(&seedOpts.CommentsPerPost, "comments", 2, "Comments per post")
	seedCmd.Flags().IntVar(&seedOpts.MaxDays, "max-days", 90, "Spread created_at over this many days")
	seedCmd.Flags().BoolVar(&seedOpts.ShouldClean, "clean", false, "Delete all existing data first")
	seedCmd.Flags().BoolVar(&seedOpts.DryRun, "dry-run", false, "Build data without writing it")
	seedCmd.Flags().BoolVar(&seedOpts.FastHash, "fast-hash", false, "Use the minimum bcrypt cost")
	seedCmd.Flags().Int64Var(&seedOpts.RandSeed, "rand-seed", 0, "Seed for reproducible data")
}

func runSeed(cmd *cobra.Command, db *gorm.DB, opts seed.Options) error {
	res, err := seed.Seed(cmd.Context(), db, opts)
	if err != nil {
		return err
	}
	cmd.Printf("Created %d users, %d posts, %d comments\n", res.Users, res.Posts, res.Comments)
	return nil
}
