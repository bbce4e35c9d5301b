package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_NestedAuthorHidesCredentials(t *testing.T) {
	post := Post{
		ID:            1,
		Title:         "Hi",
		Content:       "Hello",
		AuthorID:      7,
		Author:        User{ID: 7, Username: "alice", Email: "alice@example.com", Password: "hash"},
		Comments:      []Comment{{ID: 3, Content: "first", Author: User{ID: 8, Username: "bob"}}},
		CommentsCount: 1,
	}

	raw, err := json.Marshal(post)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.ElementsMatch(t,
		[]string{"id", "title", "content", "author", "comments", "comments_count", "created_at", "updated_at"},
		keys(body))

	author := body["author"].(map[string]any)
	assert.ElementsMatch(t, []string{"id", "username", "email"}, keys(author))

	comment := body["comments"].([]any)[0].(map[string]any)
	assert.ElementsMatch(t, []string{"id", "content", "author", "created_at", "updated_at"}, keys(comment))
}

func TestNewProfileUser_EmailVisibility(t *testing.T) {
	u := &User{ID: 4, Username: "carol", Email: "carol@example.com", DateJoined: time.Now()}

	tests := []struct {
		name     string
		viewerID uint
		want     *string
	}{
		{"owner sees email", 4, &u.Email},
		{"other user", 5, nil},
		{"anonymous", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pu := NewProfileUser(u, 2, tt.viewerID)
			assert.Equal(t, tt.want, pu.Email)
			assert.Equal(t, int64(2), pu.PostsCount)
		})
	}

	raw, err := json.Marshal(NewProfileUser(u, 0, 0))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"email":null`)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
