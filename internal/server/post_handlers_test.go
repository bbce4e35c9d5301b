package server

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"blogapi/internal/cache"
	"blogapi/internal/models"
	"blogapi/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPosts_NewestFirstWithCommentsCount(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	base := time.Now().Add(-time.Hour)
	older := testutil.CreatePost(t, env.db, alice, "Older", "first", base)
	testutil.CreatePost(t, env.db, alice, "Newer", "second", base.Add(time.Minute))
	testutil.CreateComment(t, env.db, older, alice, "one", base.Add(2*time.Minute))
	testutil.CreateComment(t, env.db, older, alice, "two", base.Add(3*time.Minute))

	status, body := env.doJSON(http.MethodGet, "/api/posts/", nil, "")
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, float64(2), body["count"])
	assert.Nil(t, body["next"])
	assert.Nil(t, body["previous"])
	assert.Equal(t, []string{"Newer", "Older"}, titlesOf(t, body))

	results := resultsOf(t, body)
	assert.Equal(t, float64(0), results[0]["comments_count"])
	assert.Equal(t, float64(2), results[1]["comments_count"])

	author := results[0]["author"].(map[string]any)
	assert.Equal(t, "alice", author["username"])
	assert.NotContains(t, author, "password")
}

func TestListPosts_DefaultPagination(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		testutil.CreatePost(t, env.db, alice, fmt.Sprintf("Post %02d", i), "body", base.Add(time.Duration(i)*time.Minute))
	}

	status, body := env.doJSON(http.MethodGet, "/api/posts/", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(12), body["count"])
	assert.Len(t, resultsOf(t, body), 10)
	require.NotNil(t, body["next"])
	assert.Contains(t, body["next"], "/api/posts/?page=2")
	assert.Nil(t, body["previous"])

	status, body = env.doJSON(http.MethodGet, "/api/posts/?page=2", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Post 01", "Post 00"}, titlesOf(t, body))
	assert.Nil(t, body["next"])
	require.NotNil(t, body["previous"])
	assert.NotContains(t, body["previous"], "page=")

	status, body = env.doJSON(http.MethodGet, "/api/posts/?page=last", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, resultsOf(t, body), 2)
}

func TestListPosts_InvalidPage(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	testutil.CreatePost(t, env.db, alice, "Only", "body", time.Now())

	for _, page := range []string{"2", "0", "abc"} {
		t.Run(page, func(t *testing.T) {
			status, body := env.doJSON(http.MethodGet, "/api/posts/?page="+page, nil, "")
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, "Invalid page.", body["error"])
		})
	}
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	bob := testutil.CreateUser(t, env.db, "bob", "bob@example.com")
	token := env.tokenFor(alice)

	tests := []struct {
		name           string
		body           map[string]any
		token          string
		expectedStatus int
		expectedField  string
	}{
		{
			name:           "Success",
			body:           map[string]any{"title": "Hello", "content": "World"},
			token:          token,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Author In Body Is Ignored",
			body:           map[string]any{"title": "Mine", "content": "text", "author": bob.ID, "author_id": bob.ID},
			token:          token,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing Content",
			body:           map[string]any{"title": "Hello"},
			token:          token,
			expectedStatus: http.StatusBadRequest,
			expectedField:  "content",
		},
		{
			name:           "Title Too Long",
			body:           map[string]any{"title": strings.Repeat("a", models.MaxTitleLength+1), "content": "x"},
			token:          token,
			expectedStatus: http.StatusBadRequest,
			expectedField:  "title",
		},
		{
			name:           "Anonymous",
			body:           map[string]any{"title": "Hello", "content": "World"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.doJSON(http.MethodPost, "/api/posts/", tt.body, tt.token)
			require.Equal(t, tt.expectedStatus, status, body)

			if tt.expectedStatus == http.StatusCreated {
				author := body["author"].(map[string]any)
				assert.Equal(t, float64(alice.ID), author["id"])
				assert.Equal(t, float64(0), body["comments_count"])
				assert.Equal(t, []any{}, body["comments"])
			}
			if tt.expectedField != "" {
				fields := body["fields"].(map[string]any)
				assert.Contains(t, fields, tt.expectedField)
			}
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Post{}).Where("author_id = ?", bob.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetPost(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	bob := testutil.CreateUser(t, env.db, "bob", "bob@example.com")
	base := time.Now().Add(-time.Hour)
	post := testutil.CreatePost(t, env.db, alice, "Hi", "there", base)
	testutil.CreateComment(t, env.db, post, bob, "second", base.Add(2*time.Minute))
	testutil.CreateComment(t, env.db, post, alice, "first", base.Add(time.Minute))

	status, body := env.doJSON(http.MethodGet, fmt.Sprintf("/api/posts/%d/", post.ID), nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hi", body["title"])
	assert.Equal(t, float64(2), body["comments_count"])

	comments := body["comments"].([]any)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].(map[string]any)["content"])
	assert.Equal(t, "bob", comments[1].(map[string]any)["author"].(map[string]any)["username"])

	status, body = env.doJSON(http.MethodGet, "/api/posts/999/", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", body["error"])

	status, _ = env.doJSON(http.MethodGet, "/api/posts/abc/", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	bob := testutil.CreateUser(t, env.db, "bob", "bob@example.com")
	post := testutil.CreatePost(t, env.db, alice, "Hi", "there", time.Now().Add(-time.Hour))
	path := fmt.Sprintf("/api/posts/%d/", post.ID)

	tests := []struct {
		name           string
		method         string
		body           map[string]any
		token          string
		path           string
		expectedStatus int
	}{
		{"Non Owner PUT", http.MethodPut, map[string]any{"title": "x", "content": "y"}, env.tokenFor(bob), path, http.StatusForbidden},
		{"Non Owner PATCH", http.MethodPatch, map[string]any{"title": "x"}, env.tokenFor(bob), path, http.StatusForbidden},
		{"Anonymous", http.MethodPut, map[string]any{"title": "x", "content": "y"}, "", path, http.StatusUnauthorized},
		{"Unknown Post", http.MethodPut, map[string]any{"title": "x", "content": "y"}, env.tokenFor(alice), "/api/posts/999/", http.StatusNotFound},
		{"PUT Requires Every Field", http.MethodPut, map[string]any{"title": "only"}, env.tokenFor(alice), path, http.StatusBadRequest},
		{"PATCH Title", http.MethodPatch, map[string]any{"title": "Patched"}, env.tokenFor(alice), path, http.StatusOK},
		{"PUT Full", http.MethodPut, map[string]any{"title": "Updated", "content": "new"}, env.tokenFor(alice), path, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.doJSON(tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.expectedStatus, status, body)
		})
	}

	var stored models.Post
	require.NoError(t, env.db.First(&stored, post.ID).Error)
	assert.Equal(t, "Updated", stored.Title)
	assert.Equal(t, "new", stored.Content)
	assert.Equal(t, alice.ID, stored.AuthorID)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
}

func TestPatchPost_KeepsOmittedFields(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	post := testutil.CreatePost(t, env.db, alice, "Hi", "there", time.Now())

	status, body := env.doJSON(http.MethodPatch, fmt.Sprintf("/api/posts/%d/", post.ID),
		map[string]any{"content": "changed"}, env.tokenFor(alice))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hi", body["title"])
	assert.Equal(t, "changed", body["content"])
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	bob := testutil.CreateUser(t, env.db, "bob", "bob@example.com")
	post := testutil.CreatePost(t, env.db, alice, "Hi", "there", time.Now())
	testutil.CreateComment(t, env.db, post, bob, "nice", time.Now())
	path := fmt.Sprintf("/api/posts/%d/", post.ID)

	status, _ := env.do(http.MethodDelete, path, nil, env.tokenFor(bob))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(http.MethodDelete, "/api/posts/999/", nil, env.tokenFor(alice))
	assert.Equal(t, http.StatusNotFound, status)

	status, raw := env.do(http.MethodDelete, path, nil, env.tokenFor(alice))
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, raw)

	assert.Zero(t, testutil.Count(t, env.db, &models.Post{}))
	assert.Zero(t, testutil.Count(t, env.db, &models.Comment{}))
}

func TestListMyPosts(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	bob := testutil.CreateUser(t, env.db, "bob", "bob@example.com")
	base := time.Now().Add(-time.Hour)
	testutil.CreatePost(t, env.db, alice, "A1", "x", base)
	testutil.CreatePost(t, env.db, bob, "B1", "x", base.Add(time.Minute))
	testutil.CreatePost(t, env.db, alice, "A2", "x", base.Add(2*time.Minute))

	status, _ := env.doJSON(http.MethodGet, "/api/posts/user/", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := env.doJSON(http.MethodGet, "/api/posts/user/", nil, env.tokenFor(alice))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, []string{"A2", "A1"}, titlesOf(t, body))
}

func TestCreate_AuthorDeletedWhileCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice", "alice@example.com")
	bob := testutil.CreateUser(t, env.db, "bob", "bob@example.com")
	post := testutil.CreatePost(t, env.db, bob, "Hello", "x", time.Now())
	token := env.tokenFor(alice)

	status, _ := env.doJSON(http.MethodGet, "/api/posts/user/", nil, token)
	require.Equal(t, http.StatusOK, status)
	cached, err := mr.Get(cache.UserKey(alice.ID))
	require.NoError(t, err)

	// Removed behind the cache's back, so authentication still sees alice.
	require.NoError(t, env.db.Exec("DELETE FROM users WHERE id = ?", alice.ID).Error)

	status, body := env.doJSON(http.MethodPost, "/api/posts/",
		map[string]any{"title": "t", "content": "c"}, token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "User not found", body["error"])
	assert.False(t, mr.Exists(cache.UserKey(alice.ID)))

	require.NoError(t, mr.Set(cache.UserKey(alice.ID), cached))
	status, body = env.doJSON(http.MethodPost, fmt.Sprintf("/api/posts/%d/comments/", post.ID),
		map[string]any{"content": "hi"}, token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "User not found", body["error"])
	assert.False(t, mr.Exists(cache.UserKey(alice.ID)))

	assert.Equal(t, int64(1), testutil.Count(t, env.db, &models.Post{}))
	assert.Zero(t, testutil.Count(t, env.db, &models.Comment{}))
}

// Users A and B; A owns the post. B can neither edit nor delete it, A can
// edit it, and the post survives B's delete attempt.
func TestPostOwnershipWalkthrough(t *testing.T) {
	env := newTestEnv(t)
	a := testutil.CreateUser(t, env.db, "a", "a@example.com")
	b := testutil.CreateUser(t, env.db, "b", "b@example.com")

	status, created := env.doJSON(http.MethodPost, "/api/posts/",
		map[string]any{"title": "Hi", "content": "hello"}, env.tokenFor(a))
	require.Equal(t, http.StatusCreated, status)
	path := fmt.Sprintf("/api/posts/%v/", created["id"])

	status, _ = env.doJSON(http.MethodPut, path, map[string]any{"title": "Hi", "content": "by b"}, env.tokenFor(b))
	assert.Equal(t, http.StatusForbidden, status)

	status, body := env.doJSON(http.MethodPut, path, map[string]any{"title": "Hi", "content": "by a"}, env.tokenFor(a))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "by a", body["content"])

	status, _ = env.do(http.MethodDelete, path, nil, env.tokenFor(b))
	assert.Equal(t, http.StatusForbidden, status)

	status, body = env.doJSON(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "by a", body["content"])
}
