package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sportsync/internal/config"
	"sportsync/internal/middleware"
	"sportsync/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

// testEnv is a server on SQLite, miniredis and an in-memory image host.
type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	redis  *redis.Client
	images *testutil.FakeImageHost
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	rdb := newTestRedis(t)
	images := &testutil.FakeImageHost{}

	cfg := &config.Config{
		JWTSecret:            testSecret,
		AllowedOrigins:       "http://localhost:5173",
		ImageCleanupAttempts: 1,
	}
	s, err := NewServerWithDeps(cfg, db, rdb, images)
	require.NoError(t, err)

	return &testEnv{server: s, app: s.NewApp(), db: db, redis: rdb, images: images}
}

// tokenFor signs a session token the way login does.
func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	token, _, err := middleware.IssueToken(testSecret, userID, time.Now())
	require.NoError(t, err)
	return token
}

type testResponse struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (r testResponse) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), string(r.body))
}

// call issues a request; token, when set, is sent as the session cookie.
func (e *testEnv) call(t *testing.T, method, path, token string, body any) testResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return testResponse{status: resp.StatusCode, body: raw, cookies: resp.Cookies()}
}

// sessionToken returns the jwt cookie value set by the response.
func (r testResponse) sessionToken(t *testing.T) string {
	t.Helper()
	for _, c := range r.cookies {
		if c.Name == middleware.SessionCookie {
			return c.Value
		}
	}
	t.Fatalf("response did not set the %s cookie", middleware.SessionCookie)
	return ""
}
