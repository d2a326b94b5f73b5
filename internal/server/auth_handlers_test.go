package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sportsync/internal/config"
	"sportsync/internal/middleware"
	"sportsync/internal/models"
	"sportsync/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockUserRepository) Suggested(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]models.User), args.Error(1)
}

func newAuthTestApp(repo *MockUserRepository) *fiber.App {
	s := &Server{
		config:      &config.Config{JWTSecret: testSecret},
		userService: service.NewUserService(repo, service.NewMedia(nil, nil, nil)).WithBcryptCost(bcrypt.MinCost),
	}
	app := fiber.New()
	app.Post("/api/users/signup", s.Signup)
	app.Post("/api/users/login", s.Login)
	app.Post("/api/users/logout", s.Logout)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSignup(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		setupMock      func(*MockUserRepository)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Successful signup",
			body: map[string]string{"name": "Ada", "username": "ada", "email": "ada@example.com", "password": "secret123"},
			setupMock: func(m *MockUserRepository) {
				m.On("GetByUsernameOrEmail", mock.Anything, "ada", "ada@example.com").Return(nil, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
					Run(func(args mock.Arguments) { args.Get(1).(*models.User).ID = 42 }).
					Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing fields",
			body:           map[string]string{"username": "ada", "password": "secret123"},
			setupMock:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Please fill in all fields",
		},
		{
			name: "User already exists",
			body: map[string]string{"name": "Ada", "username": "ada", "email": "ada@example.com", "password": "secret123"},
			setupMock: func(m *MockUserRepository) {
				m.On("GetByUsernameOrEmail", mock.Anything, "ada", "ada@example.com").
					Return(&models.User{ID: 1, Username: "ada"}, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "User already exists",
		},
		{
			name:           "Short password",
			body:           map[string]string{"name": "Ada", "username": "ada", "email": "ada@example.com", "password": "123"},
			setupMock:      func(*MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			app := newAuthTestApp(repo)

			resp := postJSON(t, app, "/api/users/signup", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var user map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
				assert.Equal(t, float64(42), user["_id"])
				assert.NotContains(t, user, "password")

				cookie := findCookie(resp, middleware.SessionCookie)
				require.NotNil(t, cookie)
				assert.True(t, cookie.HttpOnly)
				claims, err := middleware.ParseToken(testSecret, cookie.Value)
				require.NoError(t, err)
				assert.Equal(t, uint(42), claims.UserID)
			} else if tt.expectedError != "" {
				var body models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedError, body.Error)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &models.User{ID: 3, Username: "bo", Password: string(hash)}

	tests := []struct {
		name           string
		body           map[string]string
		setupMock      func(*MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Valid credentials",
			body: map[string]string{"username": "bo", "password": "secret123"},
			setupMock: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "bo").Return(stored, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Wrong password",
			body: map[string]string{"username": "bo", "password": "nope-nope"},
			setupMock: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "bo").Return(stored, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown user",
			body: map[string]string{"username": "ghost", "password": "secret123"},
			setupMock: func(m *MockUserRepository) {
				m.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			app := newAuthTestApp(repo)

			resp := postJSON(t, app, "/api/users/login", tt.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				cookie := findCookie(resp, middleware.SessionCookie)
				require.NotNil(t, cookie)
				assert.WithinDuration(t, time.Now().Add(middleware.SessionTTL), cookie.Expires, time.Minute)
			} else {
				var body models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "Invalid username or password", body.Error)
				assert.Nil(t, findCookie(resp, middleware.SessionCookie))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	rdb := newTestRedis(t)
	s := &Server{config: &config.Config{JWTSecret: testSecret}, redis: rdb}
	app := fiber.New()
	app.Post("/api/users/logout", s.Logout)

	token, claims, err := middleware.IssueToken(testSecret, 8, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/users/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "User logged out successfully", body["message"])

	cookie := findCookie(resp, middleware.SessionCookie)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)

	exists, err := rdb.Exists(context.Background(), blacklistPrefix+claims.JTI).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestLogout_WithoutSession(t *testing.T) {
	app := newAuthTestApp(new(MockUserRepository))

	resp := postJSON(t, app, "/api/users/logout", map[string]string{})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
