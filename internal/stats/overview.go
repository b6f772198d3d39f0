// Package stats serves the read-only study statistics and the dashboard.
// Everything here is a projection over the XP ledger, the card progress
// rows and the conversation log; nothing in this package writes.
package stats

import (
	"errors"
	"math"
	"time"

	"flashlingo/internal/gamification"
	"flashlingo/internal/srs"
	"flashlingo/internal/user"

	"gorm.io/gorm"
)

// dateLayout is the wire format for day and week keys.
const dateLayout = "2006-01-02"

// avgWindowDays is the window used to estimate the learning pace.
const avgWindowDays = 30

// cefrXP maps each CEFR band to the total XP at which a learner is expected
// to reach it.
var cefrXP = map[user.LanguageLevel]int{
	user.LevelA1: 0,
	user.LevelA2: 2000,
	user.LevelB1: 8000,
	user.LevelB2: 20000,
	user.LevelC1: 45000,
	user.LevelC2: 80000,
}

var cefrOrder = []user.LanguageLevel{
	user.LevelA1, user.LevelA2, user.LevelB1, user.LevelB2, user.LevelC1, user.LevelC2,
}

// LevelPrediction extrapolates the recent learning pace to estimate when
// the user reaches the next CEFR band. NextCEFR is nil at C2.
type LevelPrediction struct {
	CurrentCEFR   user.LanguageLevel  `json:"current_cefr"`
	NextCEFR      *user.LanguageLevel `json:"next_cefr"`
	CurrentXP     int                 `json:"current_xp"`
	NextCEFRXP    *int                `json:"next_cefr_xp"`
	AvgDailyXP    float64             `json:"avg_daily_xp"`
	EstimatedDate *string             `json:"estimated_date"`
}

// OverviewStats is the headline numbers of the statistics page.
type OverviewStats struct {
	WordsLearned    int64           `json:"words_learned"`
	WordsMastered   int64           `json:"words_mastered"`
	Accuracy        float64         `json:"accuracy"`
	StudyDays       int64           `json:"study_days"`
	Level           int             `json:"level"`
	TotalXP         int             `json:"total_xp"`
	CurrentStreak   int             `json:"current_streak"`
	LevelPrediction LevelPrediction `json:"level_prediction"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func predictCEFR(current user.LanguageLevel, totalXP int, avgDailyXP float64) LevelPrediction {
	idx := 0
	for i, l := range cefrOrder {
		if l == current {
			idx = i
			break
		}
	}
	pred := LevelPrediction{
		CurrentCEFR: current,
		CurrentXP:   totalXP,
		AvgDailyXP:  avgDailyXP,
	}
	if idx+1 >= len(cefrOrder) {
		return pred
	}
	next := cefrOrder[idx+1]
	nextXP := cefrXP[next]
	pred.NextCEFR = &next
	pred.NextCEFRXP = &nextXP

	if avgDailyXP > 0 {
		estimated := time.Now().UTC()
		if remaining := nextXP - totalXP; remaining > 0 {
			estimated = estimated.AddDate(0, 0, int(float64(remaining)/avgDailyXP))
		}
		date := estimated.Format(dateLayout)
		pred.EstimatedDate = &date
	}
	return pred
}

// Overview computes the statistics overview for a user: vocabulary counts
// from the progress rows, accuracy over all reviews, distinct study days
// from the ledger and the CEFR prediction.
func Overview(gdb *gorm.DB, userID uint, level user.LanguageLevel) (*OverviewStats, error) {
	var out OverviewStats

	if err := gdb.Model(&srs.CardProgress{}).
		Where("user_id = ? AND total_reviews >= 1", userID).
		Count(&out.WordsLearned).Error; err != nil {
		return nil, err
	}
	if err := gdb.Model(&srs.CardProgress{}).
		Where("user_id = ? AND interval_days >= ?", userID, srs.MasteredInterval).
		Count(&out.WordsMastered).Error; err != nil {
		return nil, err
	}

	var reviews struct {
		Correct int64
		Total   int64
	}
	if err := gdb.Model(&srs.CardProgress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(correct_reviews), 0) AS correct, COALESCE(SUM(total_reviews), 0) AS total").
		Scan(&reviews).Error; err != nil {
		return nil, err
	}
	if reviews.Total > 0 {
		out.Accuracy = round1(float64(reviews.Correct) / float64(reviews.Total) * 100)
	}

	if err := gdb.Model(&gamification.XpEvent{}).
		Where("user_id = ?", userID).
		Distinct("date(created_at)").
		Count(&out.StudyDays).Error; err != nil {
		return nil, err
	}

	var gam gamification.UserGamification
	err := gdb.Where("user_id = ?", userID).First(&gam).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		gam = gamification.UserGamification{Level: 1}
	}
	out.Level = gam.Level
	out.TotalXP = gam.TotalXP
	out.CurrentStreak = gam.CurrentStreak

	since := time.Now().UTC().AddDate(0, 0, -avgWindowDays)
	var windowXP int64
	if err := gdb.Model(&gamification.XpEvent{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Select("COALESCE(SUM(xp_amount), 0)").
		Scan(&windowXP).Error; err != nil {
		return nil, err
	}
	avgDailyXP := float64(windowXP) / avgWindowDays

	out.LevelPrediction = predictCEFR(level, gam.TotalXP, avgDailyXP)
	return &out, nil
}
