// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is an account in the directory. Following and Followers are filled
// from the follows table by the user repository and never persisted here.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"_id"`
	Name       string    `gorm:"not null" json:"name"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	Bio        string    `json:"bio"`
	ProfilePic string    `json:"profilePic"`
	Following  []uint    `gorm:"-" json:"following"`
	Followers  []uint    `gorm:"-" json:"followers"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Summary returns the display fields of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, ProfilePic: u.ProfilePic}
}

// UserSummary is the public projection of a user attached to notifications
// and conversations.
type UserSummary struct {
	ID         uint   `gorm:"primaryKey" json:"_id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

// TableName maps the projection onto the users table.
func (UserSummary) TableName() string {
	return "users"
}
