package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/models"
	"blogapi/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-that-is-long-enough-for-hs256"

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	app    *fiber.App
	server *Server
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := &config.Config{
		JWTSecret:       testSecret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		PageSize:        10,
		Env:             "test",
	}
	db := testutil.NewDB(t)
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	return &testEnv{
		t:      t,
		db:     db,
		app:    s.NewApp(),
		server: s,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
	}
}

func (e *testEnv) tokenFor(u *models.User) string {
	e.t.Helper()
	_, access, err := e.tokens.IssuePair(u.ID)
	require.NoError(e.t, err)
	return access
}

// do sends a request with an optional JSON body and bearer token and returns
// the status and raw response body.
func (e *testEnv) do(method, path string, body any, token string) (int, []byte) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp.StatusCode, raw
}

func (e *testEnv) doJSON(method, path string, body any, token string) (int, map[string]any) {
	e.t.Helper()
	status, raw := e.do(method, path, body, token)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(e.t, json.Unmarshal(raw, &out), string(raw))
	}
	return status, out
}

func resultsOf(t *testing.T, body map[string]any) []map[string]any {
	t.Helper()
	items, ok := body["results"].([]any)
	require.True(t, ok, "results missing: %v", body)
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, it.(map[string]any))
	}
	return out
}

func titlesOf(t *testing.T, body map[string]any) []string {
	t.Helper()
	var titles []string
	for _, r := range resultsOf(t, body) {
		titles = append(titles, r["title"].(string))
	}
	return titles
}
