package stats

import (
	"errors"
	"time"

	"flashlingo/internal/card"
	"flashlingo/internal/gamification"
	"flashlingo/internal/srs"
	"flashlingo/internal/user"

	"gorm.io/gorm"
)

// recentSetLimit caps how many sets the dashboard shows.
const recentSetLimit = 5

// DashboardGamification is the gamification block of the dashboard.
type DashboardGamification struct {
	TotalXP       int                 `json:"total_xp"`
	Level         int                 `json:"level"`
	CurrentStreak int                 `json:"current_streak"`
	LongestStreak int                 `json:"longest_streak"`
	League        gamification.League `json:"league"`
}

// DashboardSet is one recently updated set with the user's study counts.
type DashboardSet struct {
	ID              uint               `json:"id"`
	Title           string             `json:"title"`
	Category        string             `json:"category"`
	DifficultyLevel user.LanguageLevel `json:"difficulty_level"`
	CardCount       int                `json:"card_count"`
	LearnedCards    int                `json:"learned_cards"`
	DueCards        int                `json:"due_cards"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// DashboardData is the home-screen payload: gamification state, today's
// numbers and the most recently updated sets with their study counts.
type DashboardData struct {
	Gamification      DashboardGamification `json:"gamification"`
	TodayXP           int                   `json:"today_xp"`
	DailyXPGoal       int                   `json:"daily_xp_goal"`
	TodayReviews      int64                 `json:"today_reviews"`
	RecentSets        []DashboardSet        `json:"recent_sets"`
	TotalCardsLearned int64                 `json:"total_cards_learned"`
	TotalDueCards     int64                 `json:"total_due_cards"`
}

type setCount struct {
	CardSetID uint
	N         int64
}

func countsBySet(rows []setCount) map[uint]int64 {
	m := make(map[uint]int64, len(rows))
	for _, r := range rows {
		m[r.CardSetID] = r.N
	}
	return m
}

// Dashboard assembles the dashboard for a user. Due counts include cards
// never reviewed.
func Dashboard(gdb *gorm.DB, u *user.User) (*DashboardData, error) {
	out := &DashboardData{
		Gamification: DashboardGamification{Level: 1, League: gamification.LeagueBronze},
		DailyXPGoal:  u.DailyXPGoal,
		RecentSets:   []DashboardSet{},
	}

	var gam gamification.UserGamification
	err := gdb.Where("user_id = ?", u.ID).First(&gam).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		out.Gamification = DashboardGamification{
			TotalXP:       gam.TotalXP,
			Level:         gam.Level,
			CurrentStreak: gam.CurrentStreak,
			LongestStreak: gam.LongestStreak,
			League:        gam.League,
		}
	}

	todayXP, err := gamification.TodayXP(gdb, u.ID)
	if err != nil {
		return nil, err
	}
	out.TodayXP = todayXP

	now := time.Now().UTC()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if err := gdb.Model(&srs.CardProgress{}).
		Where("user_id = ? AND last_reviewed_at >= ?", u.ID, startOfDay).
		Count(&out.TodayReviews).Error; err != nil {
		return nil, err
	}

	var recent []card.CardSet
	if err := gdb.Where("user_id = ?", u.ID).
		Order("updated_at DESC").
		Limit(recentSetLimit).
		Find(&recent).Error; err != nil {
		return nil, err
	}

	if len(recent) > 0 {
		setIDs := make([]uint, len(recent))
		for i, cs := range recent {
			setIDs[i] = cs.ID
		}

		var learnedRows []setCount
		if err := gdb.Model(&srs.CardProgress{}).
			Select("cards.card_set_id, COUNT(*) AS n").
			Joins("JOIN cards ON cards.id = card_progress.card_id").
			Where("card_progress.user_id = ? AND cards.card_set_id IN ?", u.ID, setIDs).
			Group("cards.card_set_id").
			Scan(&learnedRows).Error; err != nil {
			return nil, err
		}
		learned := countsBySet(learnedRows)

		var dueRows []setCount
		if err := gdb.Model(&srs.CardProgress{}).
			Select("cards.card_set_id, COUNT(*) AS n").
			Joins("JOIN cards ON cards.id = card_progress.card_id").
			Where("card_progress.user_id = ? AND cards.card_set_id IN ? AND card_progress.next_review_at <= ?", u.ID, setIDs, now).
			Group("cards.card_set_id").
			Scan(&dueRows).Error; err != nil {
			return nil, err
		}
		due := countsBySet(dueRows)

		var newRows []setCount
		if err := gdb.Model(&card.Card{}).
			Select("cards.card_set_id, COUNT(*) AS n").
			Joins("LEFT JOIN card_progress ON card_progress.card_id = cards.id AND card_progress.user_id = ?", u.ID).
			Where("cards.card_set_id IN ? AND card_progress.id IS NULL", setIDs).
			Group("cards.card_set_id").
			Scan(&newRows).Error; err != nil {
			return nil, err
		}
		unseen := countsBySet(newRows)

		for _, cs := range recent {
			out.RecentSets = append(out.RecentSets, DashboardSet{
				ID:              cs.ID,
				Title:           cs.Title,
				Category:        cs.Category,
				DifficultyLevel: cs.DifficultyLevel,
				CardCount:       cs.CardCount,
				LearnedCards:    int(learned[cs.ID]),
				DueCards:        int(due[cs.ID] + unseen[cs.ID]),
				UpdatedAt:       cs.UpdatedAt,
			})
		}
	}

	if err := gdb.Model(&srs.CardProgress{}).
		Joins("JOIN cards ON cards.id = card_progress.card_id").
		Joins("JOIN card_sets ON card_sets.id = cards.card_set_id AND card_sets.deleted_at IS NULL").
		Where("card_progress.user_id = ? AND card_sets.user_id = ?", u.ID, u.ID).
		Count(&out.TotalCardsLearned).Error; err != nil {
		return nil, err
	}

	var totalDueReviewed int64
	if err := gdb.Model(&srs.CardProgress{}).
		Joins("JOIN cards ON cards.id = card_progress.card_id").
		Joins("JOIN card_sets ON card_sets.id = cards.card_set_id AND card_sets.deleted_at IS NULL").
		Where("card_progress.user_id = ? AND card_sets.user_id = ? AND card_progress.next_review_at <= ?", u.ID, u.ID, now).
		Count(&totalDueReviewed).Error; err != nil {
		return nil, err
	}
	var totalNew int64
	if err := gdb.Model(&card.Card{}).
		Joins("JOIN card_sets ON card_sets.id = cards.card_set_id AND card_sets.deleted_at IS NULL").
		Joins("LEFT JOIN card_progress ON card_progress.card_id = cards.id AND card_progress.user_id = ?", u.ID).
		Where("card_sets.user_id = ? AND card_progress.id IS NULL", u.ID).
		Count(&totalNew).Error; err != nil {
		return nil, err
	}
	out.TotalDueCards = totalDueReviewed + totalNew

	return out, nil
}
