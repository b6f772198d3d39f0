package social

import (
	"time"
)

type FriendshipStatus string

const (
	StatusPending  FriendshipStatus = "pending"
	StatusAccepted FriendshipStatus = "accepted"
)

// Friendship is a directed request row; UserID sent it, FriendID received
// it. Once accepted it counts as a friendship for both sides.
type Friendship struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	UserID    uint             `json:"user_id" gorm:"uniqueIndex:uq_friend_pair;index;not null"`
	FriendID  uint             `json:"friend_id" gorm:"uniqueIndex:uq_friend_pair;index;not null"`
	Status    FriendshipStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	CreatedAt time.Time        `json:"createdAt"`
}
