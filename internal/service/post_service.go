// Package service holds the request-independent business rules: ownership,
// validation order and pagination for posts, comments, profiles and accounts.
package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/pagination"
	"blogapi/internal/repository"
	"blogapi/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo repository.PostRepository
	pageSize int
}

// PageInput identifies the requested page of a default-shape listing.
type PageInput struct {
	Page string
	URL  *url.URL
}

type CreatePostInput struct {
	AuthorID uint
	Title    *string
	Content  *string
}

// UpdatePostInput carries a full (PUT) or partial (PATCH) edit. Nil fields
// were not supplied.
type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   *string
	Content *string
	Partial bool
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, pageSize int) *PostService {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &PostService{
		postRepo: postRepo,
		pageSize: pageSize,
	}
}

// ListPosts returns every post, newest first.
func (s *PostService) ListPosts(ctx context.Context, in PageInput) (pagination.Page[*models.Post], error) {
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return pagination.Page[*models.Post]{}, err
	}
	number, err := pagination.ResolvePage(in.Page, total, s.pageSize)
	if err != nil {
		return pagination.Page[*models.Post]{}, err
	}
	posts, err := s.postRepo.List(ctx, s.pageSize, pagination.Offset(number, s.pageSize))
	if err != nil {
		return pagination.Page[*models.Post]{}, err
	}
	return pagination.NewPage(posts, total, number, s.pageSize, in.URL), nil
}

// ListMyPosts returns the caller's own posts, newest first.
func (s *PostService) ListMyPosts(ctx context.Context, userID uint, in PageInput) (pagination.Page[*models.Post], error) {
	total, err := s.postRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return pagination.Page[*models.Post]{}, err
	}
	number, err := pagination.ResolvePage(in.Page, total, s.pageSize)
	if err != nil {
		return pagination.Page[*models.Post]{}, err
	}
	posts, err := s.postRepo.ListByAuthor(ctx, userID, s.pageSize, pagination.Offset(number, s.pageSize))
	if err != nil {
		return pagination.Page[*models.Post]{}, err
	}
	return pagination.NewPage(posts, total, number, s.pageSize, in.URL), nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost stores a post authored by the caller. Any author supplied by
// the client never reaches this point.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if fields := validation.ValidatePostFields(in.Title, in.Content, true); fields != nil {
		return nil, models.NewFieldError(fields)
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		Title:    *in.Title,
		Content:  *in.Content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, authorGone(err)
	}
	middleware.ContentWrites.WithLabelValues("post", "create").Inc()

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost applies an edit after checking, in order, that the post exists
// and that the caller owns it; validation runs last.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "PostService.UpdatePost",
		attribute.Int64("post.id", int64(in.PostID)))
	post, err := s.updatePost(ctx, in)
	observability.EndSpan(span, err)
	return post, err
}

func (s *PostService) updatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts.")
	}

	if fields := validation.ValidatePostFields(in.Title, in.Content, !in.Partial); fields != nil {
		return nil, models.NewFieldError(fields)
	}
	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	middleware.ContentWrites.WithLabelValues("post", "update").Inc()

	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post owned by the caller together with its comments.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.AuthorID != in.UserID {
		return models.NewForbiddenError("You can only edit your own posts.")
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return err
	}
	middleware.ContentWrites.WithLabelValues("post", "delete").Inc()
	return nil
}

// SearchPosts matches query against titles and contents. The query is
// trimmed; an empty query is rejected and callers render the empty shape.
func (s *PostService) SearchPosts(ctx context.Context, query, page string) (*models.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	ctx, span := observability.StartSpan(ctx, "PostService.SearchPosts",
		attribute.String("search.query", query))
	resp, err := s.search(ctx, query, page)
	observability.EndSpan(span, err)
	return resp, err
}

func (s *PostService) search(ctx context.Context, query, page string) (*models.SearchResponse, error) {
	total, err := s.postRepo.CountSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	number := pagination.ClampPage(page, total, pagination.EnvelopeSize)
	posts, err := s.postRepo.Search(ctx, query, pagination.EnvelopeSize, pagination.Offset(number, pagination.EnvelopeSize))
	if err != nil {
		return nil, err
	}
	return &models.SearchResponse{
		Envelope: pagination.NewEnvelope(posts, total, number, pagination.EnvelopeSize),
		Query:    query,
	}, nil
}

// authorGone turns a missing author on insert into the same 401 an unknown
// bearer identity gets. Other errors pass through.
func authorGone(err error) error {
	if isMissingUser(err) {
		return models.NewUnauthorizedError("User not found")
	}
	return err
}

func isMissingUser(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeNotFound && appErr.Message == "User not found"
}
