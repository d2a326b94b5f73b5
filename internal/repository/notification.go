package repository

import (
	"context"

	"sportsync/internal/models"
	"sportsync/internal/observability"

	"gorm.io/gorm"
)

// NotificationRepository persists the notification ledger.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListFor(ctx context.Context, toID uint) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, toID uint) error
	DeleteAllFor(ctx context.Context, toID uint) error
}

type notificationRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db, log: observability.NewRepoLogger("notifications")}
}

// Create stores the entry and loads its sender summary.
func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("From").Create(n).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	var from models.UserSummary
	if err := db.First(&from, n.FromID).Error; err == nil {
		n.From = &from
	}
	r.log.LogCreate(ctx, map[string]any{"notification_id": n.ID, "to_id": n.ToID, "type": n.Type})
	return nil
}

// ListFor returns every notification addressed to toID, newest first.
// It reads from the primary so a following MarkAllRead observes the same rows.
func (r *notificationRepository) ListFor(ctx context.Context, toID uint) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := newestFirst(r.db.WithContext(ctx)).
		Preload("From").
		Where("to_id = ?", toID).
		Find(&notifications).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, toID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("to_id = ? AND read = ?", toID, false).
		Update("read", true).Error
	if err != nil {
		r.log.LogError(ctx, err, "mark_all_read")
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) DeleteAllFor(ctx context.Context, toID uint) error {
	if err := r.db.WithContext(ctx).Where("to_id = ?", toID).Delete(&models.Notification{}).Error; err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	r.log.LogDelete(ctx, map[string]any{"to_id": toID})
	return nil
}
