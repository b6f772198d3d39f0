package srs

import (
	"time"
)

// CardProgress is the per (user, card) scheduling state. One row is created
// on the first review of a card and mutated on every review after that.
type CardProgress struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"uniqueIndex:uq_user_card;index:ix_user_next_review;not null"`
	CardID         uint       `json:"card_id" gorm:"uniqueIndex:uq_user_card;not null"`
	EaseFactor     float64    `json:"ease_factor" gorm:"not null;default:2.5"`
	Interval       int        `json:"interval" gorm:"column:interval_days;not null;default:0"`
	Repetitions    int        `json:"repetitions" gorm:"not null;default:0"`
	NextReviewAt   time.Time  `json:"next_review_at" gorm:"index:ix_user_next_review;not null"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	TotalReviews   int        `json:"total_reviews" gorm:"not null;default:0"`
	CorrectReviews int        `json:"correct_reviews" gorm:"not null;default:0"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (CardProgress) TableName() string {
	return "card_progress"
}
