package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"sportsync/internal/featureflags"
	"sportsync/internal/middleware"
	"sportsync/internal/models"
	"sportsync/internal/observability"
	"sportsync/internal/repository"
)

// Publisher pushes a payload onto a user's realtime channel.
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// Event is the envelope written to a user channel.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Realtime event types.
const (
	EventNotification = "notification"
	EventNewMessage   = "new_message"
)

type NotificationService struct {
	repo      repository.NotificationRepository
	publisher Publisher
	flags     *featureflags.Manager
}

func NewNotificationService(
	repo repository.NotificationRepository,
	publisher Publisher,
	flags *featureflags.Manager,
) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, flags: flags}
}

// Record appends a notification for an effective like or reply. It is
// best-effort: failures are logged and counted, never returned. Acting on
// your own content records nothing.
func (s *NotificationService) Record(ctx context.Context, fromID, toID uint, kind string, postID uint) {
	if s == nil || fromID == toID {
		return
	}
	n := &models.Notification{FromID: fromID, ToID: toID, Type: kind}
	if postID != 0 {
		n.PostID = &postID
	}

	err := s.repo.Create(ctx, n)
	observability.NotificationWrites.WithLabelValues(kind, observability.ResultLabel(err)).Inc()
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "Failed to record notification",
			slog.Uint64("from_id", uint64(fromID)),
			slog.Uint64("to_id", uint64(toID)),
			slog.String("type", kind),
			slog.String("error", err.Error()),
		)
		return
	}

	s.push(ctx, toID, EventNotification, n)
}

// push publishes an event on the recipient's channel when realtime push is
// on for them. Publishing is best-effort.
func (s *NotificationService) push(ctx context.Context, toID uint, eventType string, payload any) {
	if s == nil || s.publisher == nil {
		return
	}
	if s.flags != nil && !s.flags.Enabled(featureflags.RealtimePush, toID) {
		return
	}
	body, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "Failed to encode realtime event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.PublishUser(ctx, toID, string(body)); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to publish realtime event",
			slog.Uint64("to_id", uint64(toID)),
			slog.String("type", eventType),
			slog.String("error", err.Error()),
		)
	}
}

// ListForUser returns the user's notifications newest first as they were
// before this call, then marks every unread one as read.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	list, err := s.repo.ListFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID uint) error {
	return s.repo.DeleteAllFor(ctx, userID)
}
