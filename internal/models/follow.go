package models

import (
	"time"
)

// Follow represents a directed "follows" edge between two users.
// Both sides of the relationship live in this single row; the follower and
// followed-by views of the source's denormalized id sets are queries over it.
// The combination of FollowerID and FolloweeID must be unique, and a user
// never follows itself (enforced at the service layer).
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
