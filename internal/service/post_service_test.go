package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"blogapi/internal/models"
	"blogapi/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost_ForcesAuthor(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var stored *models.Post
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 5
		stored = p
		return nil
	}
	svc := NewPostService(repo, 10)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Title:    strPtr("Hi"),
		Content:  strPtr("Hello"),
	})
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, uint(7), stored.AuthorID)
}

func TestPostService_CreatePost_MissingAuthor(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, _ *models.Post) error { return models.NewNotFoundError("User") }
	svc := NewPostService(repo, 10)

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		AuthorID: 7,
		Title:    strPtr("Hi"),
		Content:  strPtr("Hello"),
	})
	assertCode(t, err, models.CodeUnauthorized)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), 10)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
		field string
	}{
		{"missing title", CreatePostInput{AuthorID: 1, Content: strPtr("c")}, "title"},
		{"missing content", CreatePostInput{AuthorID: 1, Title: strPtr("t")}, "content"},
		{"title too long", CreatePostInput{AuthorID: 1, Title: strPtr(strings.Repeat("x", 201)), Content: strPtr("c")}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(ctx, tt.input)
			assertCode(t, err, models.CodeValidation)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestPostService_UpdatePost_CheckOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		if id == 1 {
			return &models.Post{ID: 1, AuthorID: 10, Title: "old", Content: "old"}, nil
		}
		return nil, models.NewNotFoundError("Post")
	}
	updated := false
	repo.updateFn = func(_ context.Context, _ *models.Post) error {
		updated = true
		return nil
	}
	svc := NewPostService(repo, 10)

	tests := []struct {
		name  string
		input UpdatePostInput
		code  string
	}{
		{"unknown post wins over bad body", UpdatePostInput{UserID: 10, PostID: 2, Title: strPtr("")}, models.CodeNotFound},
		{"non-owner wins over bad body", UpdatePostInput{UserID: 11, PostID: 1, Title: strPtr("")}, models.CodeForbidden},
		{"owner with bad body", UpdatePostInput{UserID: 10, PostID: 1, Title: strPtr("")}, models.CodeValidation},
		{"full update missing content", UpdatePostInput{UserID: 10, PostID: 1, Title: strPtr("new")}, models.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdatePost(ctx, tt.input)
			assertCode(t, err, tt.code)
		})
	}
	assert.False(t, updated)
}

func TestPostService_UpdatePost_Partial(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return &models.Post{ID: 1, AuthorID: 10, Title: "old", Content: "keep"}, nil
	}
	var written *models.Post
	repo.updateFn = func(_ context.Context, p *models.Post) error {
		written = p
		return nil
	}
	svc := NewPostService(repo, 10)

	_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
		UserID: 10, PostID: 1, Title: strPtr("new"), Partial: true,
	})
	require.NoError(t, err)
	require.NotNil(t, written)
	assert.Equal(t, "new", written.Title)
	assert.Equal(t, "keep", written.Content)
	assert.Equal(t, uint(10), written.AuthorID)
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return &models.Post{ID: 1, AuthorID: 10}, nil
	}
	var deleted []uint
	repo.deleteFn = func(_ context.Context, id uint) error {
		deleted = append(deleted, id)
		return nil
	}
	svc := NewPostService(repo, 10)
	ctx := context.Background()

	err := svc.DeletePost(ctx, DeletePostInput{UserID: 11, PostID: 1})
	assertCode(t, err, models.CodeForbidden)
	assert.Empty(t, deleted)

	require.NoError(t, svc.DeletePost(ctx, DeletePostInput{UserID: 10, PostID: 1}))
	assert.Equal(t, []uint{1}, deleted)
}

func TestPostService_ListPosts_Paging(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.countFn = func(_ context.Context) (int64, error) { return 25, nil }
	var gotLimit, gotOffset int
	repo.listFn = func(_ context.Context, limit, offset int) ([]*models.Post, error) {
		gotLimit, gotOffset = limit, offset
		return []*models.Post{{ID: 1}}, nil
	}
	svc := NewPostService(repo, 10)
	u, _ := url.Parse("http://localhost:8000/api/posts/?page=2")

	page, err := svc.ListPosts(context.Background(), PageInput{Page: "2", URL: u})
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 10, gotOffset)
	assert.Equal(t, int64(25), page.Count)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=3")

	_, err = svc.ListPosts(context.Background(), PageInput{Page: "9", URL: u})
	assert.ErrorIs(t, err, pagination.ErrInvalidPage)
}

func TestPostService_ListMyPosts_ScopesToCaller(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	var counted, listed uint
	repo.countByAuthorFn = func(_ context.Context, id uint) (int64, error) {
		counted = id
		return 1, nil
	}
	repo.listByAuthorFn = func(_ context.Context, id uint, _, _ int) ([]*models.Post, error) {
		listed = id
		return []*models.Post{{ID: 3, AuthorID: id}}, nil
	}
	svc := NewPostService(repo, 10)

	page, err := svc.ListMyPosts(context.Background(), 4, PageInput{})
	require.NoError(t, err)
	assert.Equal(t, uint(4), counted)
	assert.Equal(t, uint(4), listed)
	assert.Len(t, page.Results, 1)
}

func TestPostService_SearchPosts(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.countSearchFn = func(_ context.Context, _ string) (int64, error) { return 15, nil }
	var gotQuery string
	var gotOffset int
	repo.searchFn = func(_ context.Context, q string, _, offset int) ([]*models.Post, error) {
		gotQuery, gotOffset = q, offset
		return []*models.Post{{ID: 1}}, nil
	}
	svc := NewPostService(repo, 10)
	ctx := context.Background()

	_, err := svc.SearchPosts(ctx, "   ", "")
	assertCode(t, err, models.CodeValidation)

	resp, err := svc.SearchPosts(ctx, "  fiber ", "99")
	require.NoError(t, err)
	assert.Equal(t, "fiber", gotQuery)
	assert.Equal(t, "fiber", resp.Query)
	assert.Equal(t, 10, gotOffset)
	assert.Equal(t, 2, resp.CurrentPage)
	assert.Equal(t, 2, resp.TotalPages)
	assert.False(t, resp.HasNext)
	assert.True(t, resp.HasPrevious)
}
