package gamification

import (
	"time"
)

// League is a leaderboard tier derived from total XP.
type League string

const (
	LeagueBronze   League = "Bronze"
	LeagueSilver   League = "Silver"
	LeagueGold     League = "Gold"
	LeaguePlatinum League = "Platinum"
	LeagueDiamond  League = "Diamond"
)

// XpEventKind identifies the action that produced an XP event.
type XpEventKind string

const (
	EventReview           XpEventKind = "review"
	EventSetCreated       XpEventKind = "set_created"
	EventAIGeneration     XpEventKind = "ai_generation"
	EventConversation     XpEventKind = "conversation"
	EventFriendAdded      XpEventKind = "friend_added"
	EventAchievementBonus XpEventKind = "achievement_bonus"
)

// ConditionKind selects which user metric an achievement threshold applies to.
type ConditionKind string

const (
	CondCardsLearned   ConditionKind = "cards_learned"
	CondStreakDays     ConditionKind = "streak_days"
	CondXpEarned       ConditionKind = "xp_earned"
	CondSetsCreated    ConditionKind = "sets_created"
	CondPerfectReviews ConditionKind = "perfect_reviews"
	CondConversations  ConditionKind = "conversations"
	CondFriendsCount   ConditionKind = "friends_count"
)

// XpEvent is one immutable row in the append-only XP ledger.
type XpEvent struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    uint        `json:"user_id" gorm:"index:ix_xp_events_user_created;not null"`
	XpAmount  int         `json:"xp_amount" gorm:"not null"`
	EventKind XpEventKind `json:"event_kind" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time   `json:"createdAt" gorm:"index:ix_xp_events_user_created"`
}

// UserGamification is the per-user aggregate. TotalXP always equals the sum
// of that user's XpEvent amounts, achievement bonuses included.
type UserGamification struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	UserID           uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	TotalXP          int        `json:"total_xp" gorm:"not null;default:0"`
	Level            int        `json:"level" gorm:"not null;default:1"`
	League           League     `json:"league" gorm:"type:varchar(10);not null;default:'Bronze'"`
	CurrentStreak    int        `json:"current_streak" gorm:"not null;default:0"`
	LongestStreak    int        `json:"longest_streak" gorm:"not null;default:0"`
	LastActivityDate *time.Time `json:"last_activity_date" gorm:"type:date"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (UserGamification) TableName() string {
	return "user_gamification"
}

// Achievement is a static catalog entry, unique per (kind, threshold).
type Achievement struct {
	ID                 uint          `json:"id" gorm:"primaryKey"`
	Title              string        `json:"title" gorm:"size:255;not null"`
	Description        string        `json:"description" gorm:"type:text;not null"`
	IconURL            string        `json:"icon_url" gorm:"size:512"`
	ConditionKind      ConditionKind `json:"condition_kind" gorm:"type:varchar(20);uniqueIndex:uq_achievement_condition;not null"`
	ConditionThreshold int           `json:"condition_threshold" gorm:"uniqueIndex:uq_achievement_condition;not null"`
	XpReward           int           `json:"xp_reward" gorm:"not null;default:0"`
}

// UserAchievement marks one unlock; the (user, achievement) pair is unique.
type UserAchievement struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"uniqueIndex:uq_user_achievement;not null"`
	AchievementID uint      `json:"achievement_id" gorm:"uniqueIndex:uq_user_achievement;not null"`
	UnlockedAt    time.Time `json:"unlocked_at" gorm:"autoCreateTime;not null"`
}
