package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxTextLength is the ceiling, in characters, for post and reply text.
const MaxTextLength = 500

// Post is an ordinary post. Likes is derived from LikeRecords after every
// load so the JSON carries the liking user ids as a set.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"_id"`
	PostedBy    uint      `gorm:"not null;index" json:"postedBy"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Img         string    `json:"img,omitempty"`
	LikeRecords []Like    `gorm:"foreignKey:PostID" json:"-"`
	Likes       []uint    `gorm:"-" json:"likes"`
	Replies     []Reply   `gorm:"foreignKey:PostID" json:"replies"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AfterFind flattens preloaded likes into user ids and keeps collections non-nil.
func (p *Post) AfterFind(_ *gorm.DB) error {
	p.Likes = make([]uint, 0, len(p.LikeRecords))
	for _, l := range p.LikeRecords {
		p.Likes = append(p.Likes, l.UserID)
	}
	if p.Replies == nil {
		p.Replies = []Reply{}
	}
	return nil
}

// LikedBy reports whether userID is in the post's like set.
func (p *Post) LikedBy(userID uint) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is an entry in a post's reply thread. Username and UserProfilePic
// are copied from the author when the reply is written and are not kept in
// sync afterwards.
type Reply struct {
	ID             uint      `gorm:"primaryKey" json:"_id"`
	PostID         uint      `gorm:"not null;index" json:"-"`
	UserID         uint      `gorm:"not null" json:"userId"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	Username       string    `gorm:"not null" json:"username"`
	UserProfilePic string    `json:"userProfilePic"`
	CreatedAt      time.Time `json:"createdAt"`
}
