package repository

import (
	"context"
	"errors"

	"blogapi/internal/cache"
	"blogapi/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations. List
// methods return newest first and load author, comments and comments_count.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("Author", "Comments").Create(post).Error; err != nil {
		if isForeignKeyViolation(err) {
			// The author row is gone; drop any identity still cached for it.
			cache.InvalidateUser(ctx, post.AuthorID)
			return models.NewNotFoundError("User")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx)).
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, models.NewInternalError(err)
	}
	normalize([]*models.Post{&post})
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return r.find(r.applyPostDetails(r.db.WithContext(ctx)), limit, offset)
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&models.Post{}))
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return r.find(r.applyPostDetails(r.db.WithContext(ctx)).Where("posts.author_id = ?", authorID), limit, offset)
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.count(r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID))
}

// Search matches query as a case-insensitive substring of the title or the content.
func (r *postRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	return r.find(applySearch(r.applyPostDetails(r.db.WithContext(ctx)), query), limit, offset)
}

func (r *postRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	return r.count(applySearch(r.db.WithContext(ctx).Model(&models.Post{}), query))
}

// Update writes title and content; updated_at is refreshed by GORM.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Updates(map[string]any{"title": post.Title, "content": post.Content})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

// Delete removes a post and its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Post")
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}

// applyPostDetails selects comments_count in the same query and preloads the
// author and the comments (oldest first) with their authors.
func (r *postRepository) applyPostDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count").
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.Author")
}

func applySearch(db *gorm.DB, query string) *gorm.DB {
	pattern := containsPattern(query)
	return db.Where(
		"LOWER(posts.title) LIKE LOWER(?) ESCAPE '"+likeEscape+"' OR LOWER(posts.content) LIKE LOWER(?) ESCAPE '"+likeEscape+"'",
		pattern, pattern,
	)
}

func (r *postRepository) find(db *gorm.DB, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := db.
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	normalize(posts)
	return posts, nil
}

func (r *postRepository) count(db *gorm.DB) (int64, error) {
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}

// normalize makes an empty comment list serialize as [] rather than null.
func normalize(posts []*models.Post) {
	for _, p := range posts {
		if p.Comments == nil {
			p.Comments = []models.Comment{}
		}
	}
}
