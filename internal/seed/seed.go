// Package seed fills the database with fake users, posts and comments for
// development and demos.
package seed

import (
	"context"
	"errors"
	"fmt"

	"blogapi/internal/middleware"
	"blogapi/internal/models"

	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	NumUsers        int
	PostsPerUser    int
	CommentsPerPost int
	MaxDays         int
	ShouldClean     bool
	DryRun          bool
	// FastHash uses the minimum bcrypt cost.
	FastHash bool
	RandSeed int64
}

// Result counts what a run created.
type Result struct {
	Users    int
	Posts    int
	Comments int
}

// Seed populates the database according to opts.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (Result, error) {
	var res Result
	if opts.NumUsers <= 0 {
		return res, errors.New("at least one user is required")
	}
	middleware.Logger.InfoContext(ctx, "seeding database",
		"users", opts.NumUsers, "posts_per_user", opts.PostsPerUser, "comments_per_post", opts.CommentsPerPost)

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(ctx, db); err != nil {
			return res, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	f := NewFactory(db.WithContext(ctx), opts)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := f.CreateUser(i + 1)
		if err != nil {
			return res, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, u)
	}
	res.Users = len(users)

	posts := make([]*models.Post, 0, len(users)*opts.PostsPerUser)
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			posts = append(posts, f.BuildPost(u))
		}
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return res, fmt.Errorf("failed to create posts: %w", err)
	}
	res.Posts = len(posts)

	comments := make([]*models.Comment, 0, len(posts)*opts.CommentsPerPost)
	for i, p := range posts {
		for j := 0; j < opts.CommentsPerPost; j++ {
			author := users[(i+j+1)%len(users)]
			comments = append(comments, f.BuildComment(p, author))
		}
	}
	if err := f.CreateCommentsBatch(comments); err != nil {
		return res, fmt.Errorf("failed to create comments: %w", err)
	}
	res.Comments = len(comments)

	middleware.Logger.InfoContext(ctx, "seeding complete",
		"users", res.Users, "posts", res.Posts, "comments", res.Comments, "dry_run", opts.DryRun)
	return res, nil
}

// clearData removes every comment, post and user, children first.
func clearData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
