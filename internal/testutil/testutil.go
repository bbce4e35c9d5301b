// Package testutil provides database fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"blogapi/internal/database"
	"blogapi/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database with foreign keys enforced.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: database.NewGormLogger().LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Username: username, Email: email, Password: string(hash)}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post by author created at the given time.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, title, content string, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:     title,
		Content:   content,
		AuthorID:  author.ID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Omit("Author", "Comments").Create(post).Error)
	return post
}

// CreateComment inserts a comment on post created at the given time.
func CreateComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User, content string, createdAt time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Omit("Author").Create(comment).Error)
	return comment
}

// Count returns the number of rows of model.
func Count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
