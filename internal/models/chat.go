package models

import (
	"fmt"
	"time"
)

// Conversation is a direct message thread between exactly two users.
// PairKey is the ordered pair of participant ids and keeps one thread per pair.
type Conversation struct {
	ID           uint          `gorm:"primaryKey" json:"_id"`
	PairKey      string        `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Participants []UserSummary `gorm:"many2many:conversation_participants;joinForeignKey:ConversationID;joinReferences:UserID" json:"participants"`
	LastMessage  LastMessage   `gorm:"embedded;embeddedPrefix:last_message_" json:"lastMessage"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// LastMessage is the preview shown in the conversation list.
type LastMessage struct {
	Text     string `json:"text"`
	SenderID uint   `json:"sender"`
	Seen     bool   `json:"seen"`
}

// ConversationParticipant tracks user participation in conversations
// This is the join table that GORM will use for the many2many relationship
type ConversationParticipant struct {
	ConversationID uint      `gorm:"primaryKey;autoIncrement:false"`
	UserID         uint      `gorm:"primaryKey;autoIncrement:false;index"`
	JoinedAt       time.Time `gorm:"autoCreateTime"`
}

// Message represents a chat message
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"_id"`
	ConversationID uint      `gorm:"not null;index" json:"conversationId"`
	SenderID       uint      `gorm:"not null;index" json:"sender"`
	Text           string    `gorm:"type:text" json:"text"`
	Img            string    `json:"img,omitempty"`
	Seen           bool      `gorm:"not null" json:"seen"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PairKey returns the conversation key for two users regardless of order.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
