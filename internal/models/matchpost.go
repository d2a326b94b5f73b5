package models

import "time"

// MatchmakingPost is a sports game listing looking for opponents or players.
type MatchmakingPost struct {
	ID        uint      `gorm:"primaryKey" json:"_id"`
	PostedBy  uint      `gorm:"not null;index" json:"postedBy"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Img       string    `json:"img,omitempty"`
	TeamName  string    `gorm:"not null" json:"teamName"`
	Location  string    `gorm:"not null" json:"location"`
	Date      time.Time `gorm:"not null" json:"date"`
	Time      string    `gorm:"not null" json:"time"`
	GameType  string    `gorm:"not null" json:"gameType"`
	Payment   string    `gorm:"not null" json:"payment"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
