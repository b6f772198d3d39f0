package user

import (
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// LanguageLevel is a CEFR proficiency band.
type LanguageLevel string

const (
	LevelA1 LanguageLevel = "A1"
	LevelA2 LanguageLevel = "A2"
	LevelB1 LanguageLevel = "B1"
	LevelB2 LanguageLevel = "B2"
	LevelC1 LanguageLevel = "C1"
	LevelC2 LanguageLevel = "C2"
)

func ValidLanguageLevel(l LanguageLevel) bool {
	switch l {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return true
	}
	return false
}

type User struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Email          string        `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash   string        `gorm:"size:255;not null" json:"-"`
	FullName       string        `gorm:"size:255;not null" json:"full_name"`
	AvatarURL      string        `gorm:"size:512" json:"avatar_url"`
	LanguageLevel  LanguageLevel `gorm:"type:varchar(2);not null;default:'A1'" json:"language_level"`
	NativeLanguage string        `gorm:"size:10;not null;default:'ru'" json:"native_language"`
	DailyXPGoal    int           `gorm:"not null;default:100" json:"daily_xp_goal"`
	IsPremium      bool          `gorm:"not null;default:false" json:"is_premium"`
	IsActive       bool          `gorm:"not null;default:true" json:"is_active"`
	Role           Role          `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
