package gamification

import (
	"time"

	"gorm.io/gorm"
)

// MetricsSnapshot holds the per-user metric values achievement conditions
// are checked against. It is computed once per award, before any bonus XP
// from the same pass is applied. Total XP is intentionally absent: the
// evaluator reads it live from the aggregate so that bonuses unlocked
// earlier in the same pass still count toward xp_earned conditions.
type MetricsSnapshot struct {
	CardsLearned   int64
	SetsCreated    int64
	Conversations  int64
	PerfectReviews int64
	FriendsCount   int64
}

// UnlockedAchievement pairs a catalog entry with its unlock time.
type UnlockedAchievement struct {
	Achievement
	UnlockedAt time.Time `json:"unlocked_at"`
}

// The metric tables live in other packages; counting by table name keeps
// this package out of their import graphs.
func collectMetrics(tx *gorm.DB, userID uint, needed map[ConditionKind]bool) (MetricsSnapshot, error) {
	var snap MetricsSnapshot

	if needed[CondCardsLearned] {
		if err := tx.Table("card_progress").Where("user_id = ?", userID).
			Count(&snap.CardsLearned).Error; err != nil {
			return snap, err
		}
	}
	if needed[CondSetsCreated] {
		if err := tx.Table("card_sets").Where("user_id = ? AND deleted_at IS NULL", userID).
			Count(&snap.SetsCreated).Error; err != nil {
			return snap, err
		}
	}
	if needed[CondConversations] {
		if err := tx.Table("conversations").Where("user_id = ? AND ended_at IS NOT NULL", userID).
			Count(&snap.Conversations).Error; err != nil {
			return snap, err
		}
	}
	if needed[CondPerfectReviews] {
		// Sum of correct reviews across all progress rows. The catalog wording
		// says "perfect" but the recorded metric has always been any correct
		// answer; keep the recorded behavior.
		var sum *int64
		if err := tx.Table("card_progress").Where("user_id = ?", userID).
			Select("SUM(correct_reviews)").Scan(&sum).Error; err != nil {
			return snap, err
		}
		if sum != nil {
			snap.PerfectReviews = *sum
		}
	}
	if needed[CondFriendsCount] {
		if err := tx.Table("friendships").
			Where("(user_id = ? OR friend_id = ?) AND status = ?", userID, userID, "accepted").
			Count(&snap.FriendsCount).Error; err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// metricValue resolves one condition kind against the snapshot and the live
// aggregate. Closed switch: unknown kinds never unlock.
func metricValue(kind ConditionKind, snap MetricsSnapshot, gam *UserGamification) int64 {
	switch kind {
	case CondCardsLearned:
		return snap.CardsLearned
	case CondStreakDays:
		return int64(gam.CurrentStreak)
	case CondXpEarned:
		return int64(gam.TotalXP)
	case CondSetsCreated:
		return snap.SetsCreated
	case CondPerfectReviews:
		return snap.PerfectReviews
	case CondConversations:
		return snap.Conversations
	case CondFriendsCount:
		return snap.FriendsCount
	}
	return -1
}

// checkAchievements evaluates every not-yet-unlocked catalog entry against
// the user's current metrics and unlocks the satisfied ones. Each unlock
// records the UserAchievement row, appends an achievement_bonus ledger event
// and bumps the in-memory total, but never re-enters evaluation. Level and
// league are recomputed once after the pass if anything unlocked.
func checkAchievements(tx *gorm.DB, userID uint, gam *UserGamification) ([]UnlockedAchievement, error) {
	sub := tx.Model(&UserAchievement{}).Select("achievement_id").Where("user_id = ?", userID)
	var unearned []Achievement
	if err := tx.Where("id NOT IN (?)", sub).Find(&unearned).Error; err != nil {
		return nil, err
	}
	if len(unearned) == 0 {
		return nil, nil
	}

	needed := make(map[ConditionKind]bool, len(unearned))
	for _, a := range unearned {
		needed[a.ConditionKind] = true
	}
	snap, err := collectMetrics(tx, userID, needed)
	if err != nil {
		return nil, err
	}

	var newlyUnlocked []UnlockedAchievement
	for _, achievement := range unearned {
		if metricValue(achievement.ConditionKind, snap, gam) < int64(achievement.ConditionThreshold) {
			continue
		}

		ua := UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
		}
		if err := tx.Create(&ua).Error; err != nil {
			return nil, err
		}

		// Bonus XP goes through the ledger but must not re-trigger evaluation.
		if achievement.XpReward > 0 {
			bonus := XpEvent{
				UserID:    userID,
				XpAmount:  achievement.XpReward,
				EventKind: EventAchievementBonus,
			}
			if err := tx.Create(&bonus).Error; err != nil {
				return nil, err
			}
			gam.TotalXP += achievement.XpReward
		}

		newlyUnlocked = append(newlyUnlocked, UnlockedAchievement{
			Achievement: achievement,
			UnlockedAt:  ua.UnlockedAt,
		})
	}

	if len(newlyUnlocked) > 0 {
		gam.Level = CalculateLevel(gam.TotalXP)
		gam.League = CalculateLeague(gam.TotalXP)
	}
	return newlyUnlocked, nil
}
