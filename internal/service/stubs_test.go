package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"sportsync/internal/models"
	"sportsync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn               func(context.Context, *models.User) error
	getByIDFn              func(context.Context, uint) (*models.User, error)
	getByUsernameFn        func(context.Context, string) (*models.User, error)
	getByUsernameOrEmailFn func(context.Context, string, string) (*models.User, error)
	updateFn               func(context.Context, uint, map[string]any) error
	toggleFollowFn         func(context.Context, uint, uint) (bool, error)
	followingIDsFn         func(context.Context, uint) ([]uint, error)
	suggestedFn            func(context.Context, uint, int) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	return s.getByUsernameOrEmailFn(ctx, username, email)
}
func (s *userRepoStub) Update(ctx context.Context, id uint, fields map[string]any) error {
	return s.updateFn(ctx, id, fields)
}
func (s *userRepoStub) ToggleFollow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	return s.toggleFollowFn(ctx, followerID, followeeID)
}
func (s *userRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}
func (s *userRepoStub) Suggested(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	return s.suggestedFn(ctx, userID, limit)
}

// usersByID answers GetByID from a fixed set of users.
func usersByID(users ...*models.User) *userRepoStub {
	stub := noopUserRepo()
	stub.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		for _, u := range users {
			if u.ID == id {
				return u, nil
			}
		}
		return nil, nil
	}
	stub.getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
		for _, u := range users {
			if u.Username == name {
				return u, nil
			}
		}
		return nil, nil
	}
	return stub
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:               func(context.Context, *models.User) error { return nil },
		getByIDFn:              func(context.Context, uint) (*models.User, error) { return nil, nil },
		getByUsernameFn:        func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameOrEmailFn: func(context.Context, string, string) (*models.User, error) { return nil, nil },
		updateFn:               func(context.Context, uint, map[string]any) error { return nil },
		toggleFollowFn:         func(context.Context, uint, uint) (bool, error) { return true, nil },
		followingIDsFn:         func(context.Context, uint) ([]uint, error) { return []uint{}, nil },
		suggestedFn:            func(context.Context, uint, int) ([]models.User, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	listByAuthorFn  func(context.Context, uint) ([]models.Post, error)
	listByAuthorsFn func(context.Context, []uint) ([]models.Post, error)
	deleteFn        func(context.Context, uint) error
	likeFn          func(context.Context, uint, uint) (bool, error)
	unlikeFn        func(context.Context, uint, uint) (bool, error)
	addReplyFn      func(context.Context, *models.Reply) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error) {
	return s.listByAuthorsFn(ctx, authorIDs)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) (bool, error) {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) AddReply(ctx context.Context, reply *models.Reply) error {
	return s.addReplyFn(ctx, reply)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(context.Context, *models.Post) error { return nil },
		getByIDFn:       func(context.Context, uint) (*models.Post, error) { return nil, nil },
		listByAuthorFn:  func(context.Context, uint) ([]models.Post, error) { return nil, nil },
		listByAuthorsFn: func(context.Context, []uint) ([]models.Post, error) { return nil, nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		likeFn:          func(context.Context, uint, uint) (bool, error) { return true, nil },
		unlikeFn:        func(context.Context, uint, uint) (bool, error) { return true, nil },
		addReplyFn:      func(context.Context, *models.Reply) error { return nil },
	}
}

// matchRepoStub is a stub for repository.MatchPostRepository.
type matchRepoStub struct {
	createFn        func(context.Context, *models.MatchmakingPost) error
	getByIDFn       func(context.Context, uint) (*models.MatchmakingPost, error)
	listByAuthorFn  func(context.Context, uint) ([]models.MatchmakingPost, error)
	listByAuthorsFn func(context.Context, []uint) ([]models.MatchmakingPost, error)
	deleteFn        func(context.Context, uint) error
}

func (s *matchRepoStub) Create(ctx context.Context, post *models.MatchmakingPost) error {
	return s.createFn(ctx, post)
}
func (s *matchRepoStub) GetByID(ctx context.Context, id uint) (*models.MatchmakingPost, error) {
	return s.getByIDFn(ctx, id)
}
func (s *matchRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]models.MatchmakingPost, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *matchRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint) ([]models.MatchmakingPost, error) {
	return s.listByAuthorsFn(ctx, authorIDs)
}
func (s *matchRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopMatchRepo() *matchRepoStub {
	return &matchRepoStub{
		createFn:        func(context.Context, *models.MatchmakingPost) error { return nil },
		getByIDFn:       func(context.Context, uint) (*models.MatchmakingPost, error) { return nil, nil },
		listByAuthorFn:  func(context.Context, uint) ([]models.MatchmakingPost, error) { return nil, nil },
		listByAuthorsFn: func(context.Context, []uint) ([]models.MatchmakingPost, error) { return nil, nil },
		deleteFn:        func(context.Context, uint) error { return nil },
	}
}

// notificationRepoStub records notifications in memory.
type notificationRepoStub struct {
	mu        sync.Mutex
	items     []models.Notification
	createErr error
	nextID    uint
}

func (s *notificationRepoStub) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	n.ID = s.nextID
	s.items = append(s.items, *n)
	return nil
}

func (s *notificationRepoStub) ListFor(_ context.Context, toID uint) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Notification{}
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].ToID == toID {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

func (s *notificationRepoStub) MarkAllRead(_ context.Context, toID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ToID == toID {
			s.items[i].Read = true
		}
	}
	return nil
}

func (s *notificationRepoStub) DeleteAllFor(_ context.Context, toID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, n := range s.items {
		if n.ToID != toID {
			kept = append(kept, n)
		}
	}
	s.items = kept
	return nil
}

func (s *notificationRepoStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// publisherStub records published payloads per user.
type publisherStub struct {
	mu       sync.Mutex
	payloads map[uint][]string
	err      error
}

func (p *publisherStub) PublishUser(_ context.Context, userID uint, payload string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.payloads == nil {
		p.payloads = map[uint][]string{}
	}
	p.payloads[userID] = append(p.payloads[userID], payload)
	return nil
}

func (p *publisherStub) sent(userID uint) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.payloads[userID]
}

func testMedia(host *testutil.FakeImageHost) *Media {
	return NewMedia(host, nil, nil)
}

func assertAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error, message string) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation, message)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error, message string) {
	t.Helper()
	assertAppError(t, err, models.CodeUnauthorized, message)
}

func assertNotFoundError(t *testing.T, err error, message string) {
	t.Helper()
	assertAppError(t, err, models.CodeNotFound, message)
}
