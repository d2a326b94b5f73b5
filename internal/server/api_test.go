package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"sportsync/internal/models"
	"sportsync/internal/notifications"
	"sportsync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNk+M9QDwADhgGAWjR9awAAAABJRU5ErkJggg=="

type session struct {
	user  models.User
	token string
}

func (e *testEnv) signup(t *testing.T, username string) session {
	t.Helper()
	res := e.call(t, http.MethodPost, "/api/users/signup", "", map[string]string{
		"name":     strings.ToUpper(username[:1]) + username[1:],
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, res.status, string(res.body))

	var user models.User
	res.decode(t, &user)
	return session{user: user, token: res.sessionToken(t)}
}

func (e *testEnv) login(t *testing.T, username string) session {
	t.Helper()
	res := e.call(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, res.status, string(res.body))

	var user models.User
	res.decode(t, &user)
	return session{user: user, token: res.sessionToken(t)}
}

func (e *testEnv) createPost(t *testing.T, s session, text string) models.Post {
	t.Helper()
	res := e.call(t, http.MethodPost, "/api/posts/create", s.token, map[string]any{
		"postedBy": s.user.ID,
		"text":     text,
	})
	require.Equal(t, http.StatusCreated, res.status, string(res.body))
	var post models.Post
	res.decode(t, &post)
	return post
}

func errorOf(t *testing.T, res testResponse) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	res.decode(t, &body)
	return body
}

func messageOf(t *testing.T, res testResponse) string {
	t.Helper()
	var body map[string]string
	res.decode(t, &body)
	return body["message"]
}

func TestScenario_PostFollowLikeNotify(t *testing.T) {
	env := newTestEnv(t)

	env.signup(t, "alice")
	alice := env.login(t, "alice")
	post := env.createPost(t, alice, "hello")
	assert.Equal(t, alice.user.ID, post.PostedBy)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Replies)

	bob := env.signup(t, "bob")
	res := env.call(t, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", alice.user.ID), bob.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "User followed successfully", messageOf(t, res))

	res = env.call(t, http.MethodGet, "/api/posts/feed", bob.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	var feed []models.Post
	res.decode(t, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, post.ID, feed[0].ID)
	assert.Equal(t, "hello", feed[0].Text)

	res = env.call(t, http.MethodPut, fmt.Sprintf("/api/posts/like/%d", post.ID), bob.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Post liked successfully", messageOf(t, res))

	res = env.call(t, http.MethodGet, "/api/notifications/getnoti", alice.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	var first []models.Notification
	res.decode(t, &first)
	require.Len(t, first, 1)
	assert.Equal(t, models.NotificationTypeLikes, first[0].Type)
	assert.False(t, first[0].Read)
	require.NotNil(t, first[0].From)
	assert.Equal(t, bob.user.ID, first[0].From.ID)
	assert.Equal(t, "bob", first[0].From.Username)

	res = env.call(t, http.MethodGet, "/api/notifications/getnoti", alice.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	var second []models.Notification
	res.decode(t, &second)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, second[0].Read)

	res = env.call(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), alice.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Post deleted successfully", messageOf(t, res))

	res = env.call(t, http.MethodGet, "/api/posts/feed", bob.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.JSONEq(t, `[]`, string(res.body))
}

func TestPosts_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	tests := []struct {
		name       string
		token      string
		body       map[string]any
		wantStatus int
		wantError  string
	}{
		{"no session", "", map[string]any{"postedBy": alice.user.ID, "text": "x"}, http.StatusUnauthorized, "Unauthorized access"},
		{"missing text", alice.token, map[string]any{"postedBy": alice.user.ID}, http.StatusBadRequest, "Postedby and text fields are required"},
		{"missing postedBy", alice.token, map[string]any{"text": "x"}, http.StatusBadRequest, "Postedby and text fields are required"},
		{"unknown author", alice.token, map[string]any{"postedBy": 9999, "text": "x"}, http.StatusNotFound, "User not found"},
		{"other author", bob.token, map[string]any{"postedBy": alice.user.ID, "text": "x"}, http.StatusUnauthorized, "Unauthorized to create post"},
		{"string id", alice.token, map[string]any{"postedBy": fmt.Sprint(alice.user.ID), "text": "x"}, http.StatusCreated, ""},
		{"501 characters", alice.token, map[string]any{"postedBy": alice.user.ID, "text": strings.Repeat("a", 501)}, http.StatusBadRequest, "Text must be less than 500 characters"},
		{"500 characters", alice.token, map[string]any{"postedBy": alice.user.ID, "text": strings.Repeat("a", 500)}, http.StatusCreated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.call(t, http.MethodPost, "/api/posts/create", tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, res.status, string(res.body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorOf(t, res).Error)
			}
		})
	}
}

func TestPosts_GetAndDeleteOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	post := env.createPost(t, alice, "mine")

	res := env.call(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	require.Equal(t, http.StatusOK, res.status)

	res = env.call(t, http.MethodGet, "/api/posts/424242", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Post not found", errorOf(t, res).Error)

	res = env.call(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), bob.token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "Unauthorized to delete post", errorOf(t, res).Error)

	res = env.call(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "Unauthorized access", errorOf(t, res).Error)

	res = env.call(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), alice.token, nil)
	assert.Equal(t, http.StatusOK, res.status)

	res = env.call(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), alice.token, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestPosts_ImageLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")

	res := env.call(t, http.MethodPost, "/api/posts/create", alice.token, map[string]any{
		"postedBy": alice.user.ID,
		"text":     "with a picture",
		"img":      pixelPNG,
	})
	require.Equal(t, http.StatusCreated, res.status, string(res.body))
	var post models.Post
	res.decode(t, &post)
	require.Len(t, env.images.Uploaded, 1)
	assert.Equal(t, env.images.Uploaded[0], post.Img)
	assert.Contains(t, post.Img, "/posts/")

	res = env.call(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), alice.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, []string{post.Img}, env.images.Destroyed)
}

func TestPosts_UploadWithoutImageHost(t *testing.T) {
	env := newTestEnv(t)
	s, err := NewServerWithDeps(env.server.config, env.db, env.redis, nil)
	require.NoError(t, err)
	env.app = s.NewApp()
	alice := env.signup(t, "alice")

	res := env.call(t, http.MethodPost, "/api/posts/create", alice.token, map[string]any{
		"postedBy": alice.user.ID,
		"text":     "with a picture",
		"img":      pixelPNG,
	})
	assert.Equal(t, http.StatusInternalServerError, res.status)
	assert.Equal(t, "Image uploads are not configured", errorOf(t, res).Error)

	post := env.createPost(t, alice, "text still works")
	assert.Empty(t, post.Img)
}

func TestPosts_LikeToggleAndSelfLike(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	post := env.createPost(t, alice, "like me")
	likePath := fmt.Sprintf("/api/posts/like/%d", post.ID)

	res := env.call(t, http.MethodPut, likePath, bob.token, nil)
	assert.Equal(t, "Post liked successfully", messageOf(t, res))
	res = env.call(t, http.MethodPut, likePath, bob.token, nil)
	assert.Equal(t, "Post unliked successfully", messageOf(t, res))

	res = env.call(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	var got models.Post
	res.decode(t, &got)
	assert.Empty(t, got.Likes)

	res = env.call(t, http.MethodPut, likePath, alice.token, nil)
	assert.Equal(t, "Post liked successfully", messageOf(t, res))
	res = env.call(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	res.decode(t, &got)
	assert.Equal(t, []uint{alice.user.ID}, got.Likes)

	// One notification from bob's first like; none for the unlike or the self-like.
	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Where("to_id = ?", alice.user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	res = env.call(t, http.MethodPut, "/api/posts/like/999", bob.token, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestPosts_Reply(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	post := env.createPost(t, alice, "reply to me")
	replyPath := fmt.Sprintf("/api/posts/reply/%d", post.ID)

	res := env.call(t, http.MethodPut, replyPath, bob.token, map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Text field is required", errorOf(t, res).Error)

	res = env.call(t, http.MethodPut, "/api/posts/reply/999", bob.token, map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, res.status)

	res = env.call(t, http.MethodPut, replyPath, bob.token, map[string]string{"text": strings.Repeat("b", 501)})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = env.call(t, http.MethodPut, replyPath, bob.token, map[string]string{"text": "nice one"})
	require.Equal(t, http.StatusOK, res.status)
	var reply models.Reply
	res.decode(t, &reply)
	assert.Equal(t, "nice one", reply.Text)
	assert.Equal(t, "bob", reply.Username)
	assert.Equal(t, bob.user.ID, reply.UserID)

	// Renaming afterwards leaves the snapshot alone.
	res = env.call(t, http.MethodPut, fmt.Sprintf("/api/users/update/%d", bob.user.ID), bob.token, map[string]string{"username": "robert"})
	require.Equal(t, http.StatusOK, res.status, string(res.body))

	res = env.call(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	var got models.Post
	res.decode(t, &got)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, "bob", got.Replies[0].Username)

	res = env.call(t, http.MethodGet, "/api/notifications/getnoti", alice.token, nil)
	var notis []models.Notification
	res.decode(t, &notis)
	require.Len(t, notis, 1)
	assert.Equal(t, models.NotificationTypeReply, notis[0].Type)
}

func TestPosts_FeedEmptyAndByUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	carol := env.signup(t, "carol")

	res := env.call(t, http.MethodGet, "/api/posts/feed", carol.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.JSONEq(t, `[]`, string(res.body))

	older := env.createPost(t, alice, "older")
	newer := env.createPost(t, alice, "newer")

	res = env.call(t, http.MethodGet, "/api/posts/user/alice", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	var posts []models.Post
	res.decode(t, &posts)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)

	res = env.call(t, http.MethodGet, "/api/posts/user/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "User not found", errorOf(t, res).Error)

	// A session for a user that no longer exists.
	res = env.call(t, http.MethodGet, "/api/posts/feed", tokenFor(t, 9999), nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "User not found", errorOf(t, res).Error)
}

func TestMatchPosts(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	full := map[string]any{
		"postedBy": alice.user.ID,
		"text":     "Need a keeper",
		"teamName": "Rovers",
		"location": "Riverside Park",
		"date":     "2026-11-02",
		"time":     "18:30",
		"gameType": "5-a-side",
		"payment":  "split",
	}

	missing := map[string]any{}
	for k, v := range full {
		if k != "location" {
			missing[k] = v
		}
	}
	res := env.call(t, http.MethodPost, "/api/matchpost/create", alice.token, missing)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "All fields are required", errorOf(t, res).Error)

	badDate := map[string]any{}
	for k, v := range full {
		badDate[k] = v
	}
	badDate["date"] = "next tuesday"
	res = env.call(t, http.MethodPost, "/api/matchpost/create", alice.token, badDate)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "Invalid date", errorOf(t, res).Error)

	res = env.call(t, http.MethodPost, "/api/matchpost/create", bob.token, full)
	assert.Equal(t, http.StatusUnauthorized, res.status)

	res = env.call(t, http.MethodPost, "/api/matchpost/create", alice.token, full)
	require.Equal(t, http.StatusCreated, res.status, string(res.body))
	var mp models.MatchmakingPost
	res.decode(t, &mp)
	assert.Equal(t, "Rovers", mp.TeamName)
	assert.Equal(t, 2026, mp.Date.Year())

	res = env.call(t, http.MethodGet, fmt.Sprintf("/api/matchpost/%d", mp.ID), "", nil)
	assert.Equal(t, http.StatusOK, res.status)
	res = env.call(t, http.MethodGet, "/api/matchpost/777", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Matchmaking post not found", errorOf(t, res).Error)

	res = env.call(t, http.MethodGet, "/api/matchpost/matchfeed", bob.token, nil)
	assert.JSONEq(t, `[]`, string(res.body))

	env.call(t, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", alice.user.ID), bob.token, nil)
	res = env.call(t, http.MethodGet, "/api/matchpost/matchfeed", bob.token, nil)
	var feed []models.MatchmakingPost
	res.decode(t, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, mp.ID, feed[0].ID)

	res = env.call(t, http.MethodGet, "/api/matchpost/user/alice", "", nil)
	res.decode(t, &feed)
	assert.Len(t, feed, 1)

	res = env.call(t, http.MethodDelete, fmt.Sprintf("/api/matchpost/%d", mp.ID), bob.token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	res = env.call(t, http.MethodDelete, fmt.Sprintf("/api/matchpost/%d", mp.ID), alice.token, nil)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Post deleted successfully", messageOf(t, res))
}

func TestUsers_ProfileFollowUpdateSuggested(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	testutil.CreateUser(t, env.db, "carol")

	res := env.call(t, http.MethodGet, fmt.Sprintf("/api/users/profile/%d", alice.user.ID), "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.NotContains(t, string(res.body), "password")

	res = env.call(t, http.MethodGet, "/api/users/profile/alice", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	res = env.call(t, http.MethodGet, "/api/users/profile/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = env.call(t, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", bob.user.ID), bob.token, nil)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "You cannot follow/unfollow yourself", errorOf(t, res).Error)
	res = env.call(t, http.MethodPost, "/api/users/follow/9999", bob.token, nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = env.call(t, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", alice.user.ID), bob.token, nil)
	assert.Equal(t, "User followed successfully", messageOf(t, res))
	res = env.call(t, http.MethodGet, "/api/users/profile/alice", "", nil)
	var profile models.User
	res.decode(t, &profile)
	assert.Equal(t, []uint{bob.user.ID}, profile.Followers)

	res = env.call(t, http.MethodGet, "/api/users/suggested", bob.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	var suggested []models.User
	res.decode(t, &suggested)
	require.Len(t, suggested, 1)
	assert.Equal(t, "carol", suggested[0].Username)

	res = env.call(t, http.MethodPost, fmt.Sprintf("/api/users/follow/%d", alice.user.ID), bob.token, nil)
	assert.Equal(t, "User unfollowed successfully", messageOf(t, res))

	res = env.call(t, http.MethodPut, fmt.Sprintf("/api/users/update/%d", alice.user.ID), bob.token, map[string]string{"bio": "hijack"})
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "You cannot update other user's profile", errorOf(t, res).Error)

	res = env.call(t, http.MethodPut, fmt.Sprintf("/api/users/update/%d", bob.user.ID), bob.token, map[string]string{
		"bio":        "keeper",
		"profilePic": pixelPNG,
	})
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	var updated models.User
	res.decode(t, &updated)
	assert.Equal(t, "keeper", updated.Bio)
	assert.Contains(t, updated.ProfilePic, "/profiles/")
}

func TestMessages(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")

	res := env.call(t, http.MethodPost, "/api/messages", alice.token, map[string]any{"recipientId": alice.user.ID, "message": "me"})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "You cannot message yourself", errorOf(t, res).Error)

	res = env.call(t, http.MethodPost, "/api/messages", alice.token, map[string]any{"recipientId": bob.user.ID})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = env.call(t, http.MethodPost, "/api/messages", alice.token, map[string]any{"recipientId": 9999, "message": "hi"})
	assert.Equal(t, http.StatusNotFound, res.status)

	res = env.call(t, http.MethodGet, fmt.Sprintf("/api/messages/%d", bob.user.ID), alice.token, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Conversation not found", errorOf(t, res).Error)

	res = env.call(t, http.MethodPost, "/api/messages", alice.token, map[string]any{"recipientId": fmt.Sprint(bob.user.ID), "message": "first"})
	require.Equal(t, http.StatusCreated, res.status, string(res.body))
	res = env.call(t, http.MethodPost, "/api/messages", bob.token, map[string]any{"recipientId": alice.user.ID, "message": "second"})
	require.Equal(t, http.StatusCreated, res.status)

	res = env.call(t, http.MethodGet, fmt.Sprintf("/api/messages/%d", bob.user.ID), alice.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	var msgs []models.Message
	res.decode(t, &msgs)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)

	res = env.call(t, http.MethodGet, "/api/messages/conversations", bob.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	var convs []models.Conversation
	res.decode(t, &convs)
	require.Len(t, convs, 1)
	require.Len(t, convs[0].Participants, 1)
	assert.Equal(t, alice.user.ID, convs[0].Participants[0].ID)
	assert.Equal(t, "second", convs[0].LastMessage.Text)
	assert.True(t, convs[0].LastMessage.Seen)
}

func TestNotifications_DeleteAndPush(t *testing.T) {
	env := newTestEnv(t)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bob")
	post := env.createPost(t, alice, "push me")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := env.redis.Subscribe(ctx, notifications.UserChannel(alice.user.ID))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	res := env.call(t, http.MethodPut, fmt.Sprintf("/api/posts/like/%d", post.ID), bob.token, nil)
	require.Equal(t, http.StatusOK, res.status)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	var event struct {
		Type    string              `json:"type"`
		Payload models.Notification `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, "notification", event.Type)
	assert.Equal(t, models.NotificationTypeLikes, event.Payload.Type)

	res = env.call(t, http.MethodDelete, "/api/notifications/delnoti", alice.token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Notifications deleted successfully", messageOf(t, res))

	res = env.call(t, http.MethodGet, "/api/notifications/getnoti", alice.token, nil)
	assert.JSONEq(t, `[]`, string(res.body))
}

func TestOpsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	res := env.call(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Contains(t, string(res.body), `"up"`)

	res = env.call(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, res.status, string(res.body))

	res = env.call(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, res.status)

	res = env.call(t, http.MethodGet, "/api/flags", tokenFor(t, 1), nil)
	require.Equal(t, http.StatusOK, res.status)
	var flags struct {
		Flags map[string]bool `json:"flags"`
	}
	res.decode(t, &flags)
	assert.True(t, flags.Flags["realtime_push"])
}
