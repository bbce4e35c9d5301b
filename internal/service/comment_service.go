package service

import (
	"context"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/pagination"
	"blogapi/internal/repository"
	"blogapi/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	pageSize    int
}

type CreateCommentInput struct {
	AuthorID uint
	PostID   uint
	Content  *string
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, pageSize int) *CommentService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		pageSize:    pageSize,
	}
}

// ListComments returns a post's comments, oldest first. An unknown post
// yields an empty page rather than an error.
func (s *CommentService) ListComments(ctx context.Context, postID uint, in PageInput) (pagination.Page[*models.Comment], error) {
	total, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return pagination.Page[*models.Comment]{}, err
	}
	number, err := pagination.ResolvePage(in.Page, total, s.pageSize)
	if err != nil {
		return pagination.Page[*models.Comment]{}, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID, s.pageSize, pagination.Offset(number, s.pageSize))
	if err != nil {
		return pagination.Page[*models.Comment]{}, err
	}
	return pagination.NewPage(comments, total, number, s.pageSize, in.URL), nil
}

// CreateComment validates the content before resolving the post, so a bad
// body on an unknown post reports 400 rather than 404.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if fields := validation.ValidateCommentContent(in.Content); fields != nil {
		return nil, models.NewFieldError(fields)
	}

	exists, err := s.postRepo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Post")
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
		Content:  *in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if !isMissingUser(err) {
			return nil, err
		}
		// Either reference may be gone: the post can be deleted after the existence check.
		if exists, existsErr := s.postRepo.Exists(ctx, in.PostID); existsErr == nil && !exists {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, authorGone(err)
	}
	middleware.ContentWrites.WithLabelValues("comment", "create").Inc()
	return comment, nil
}
