package models

import "time"

// Notification kinds.
const (
	NotificationTypeLikes = "likes"
	NotificationTypeReply = "reply"
)

// Notification is a ledger entry telling ToID that FromID acted on their content.
type Notification struct {
	ID        uint         `gorm:"primaryKey" json:"_id"`
	FromID    uint         `gorm:"not null;index" json:"-"`
	From      *UserSummary `gorm:"foreignKey:FromID" json:"from"`
	ToID      uint         `gorm:"not null;index" json:"to"`
	Type      string       `gorm:"size:16;not null" json:"type"`
	PostID    *uint        `gorm:"index" json:"postId,omitempty"`
	Read      bool         `gorm:"not null" json:"read"`
	CreatedAt time.Time    `json:"createdAt"`
}
