package models

import "time"

// Follow is a directed edge of the follow graph: FollowerID follows FolloweeID.
// The composite key gives set semantics and the check keeps self edges out.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false;check:chk_follows_not_self,follower_id <> followee_id" json:"follower_id"`
	FolloweeID uint      `gorm:"primaryKey;autoIncrement:false;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
