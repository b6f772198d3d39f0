package stats

import (
	"sort"

	"flashlingo/internal/srs"

	"gorm.io/gorm"
)

// SetStrength is the per-set accuracy and mastery summary. Only sets the
// user owns and has reviewed at least once appear.
type SetStrength struct {
	SetID          uint    `json:"set_id"`
	SetTitle       string  `json:"set_title"`
	TotalCards     int     `json:"total_cards"`
	CardsStudied   int     `json:"cards_studied"`
	CorrectReviews int     `json:"correct_reviews"`
	TotalReviews   int     `json:"total_reviews"`
	Accuracy       float64 `json:"accuracy"`
	MasteredCards  int     `json:"mastered_cards"`
}

// StrengthsReport lists the user's sets, strongest first.
type StrengthsReport struct {
	Sets []SetStrength `json:"sets"`
}

// Strengths aggregates the user's progress per owned set and ranks the
// sets by accuracy.
func Strengths(gdb *gorm.DB, userID uint) (*StrengthsReport, error) {
	var rows []SetStrength
	err := gdb.Table("card_sets").
		Select(`card_sets.id AS set_id, card_sets.title AS set_title, card_sets.card_count AS total_cards,
			COUNT(card_progress.id) AS cards_studied,
			COALESCE(SUM(card_progress.correct_reviews), 0) AS correct_reviews,
			COALESCE(SUM(card_progress.total_reviews), 0) AS total_reviews,
			COALESCE(SUM(CASE WHEN card_progress.interval_days >= ? THEN 1 ELSE 0 END), 0) AS mastered_cards`,
			srs.MasteredInterval).
		Joins("JOIN cards ON cards.card_set_id = card_sets.id AND cards.deleted_at IS NULL").
		Joins("JOIN card_progress ON card_progress.card_id = cards.id AND card_progress.user_id = ?", userID).
		Where("card_sets.user_id = ? AND card_sets.deleted_at IS NULL", userID).
		Group("card_sets.id, card_sets.title, card_sets.card_count").
		Having("SUM(card_progress.total_reviews) > 0").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Accuracy = round1(float64(rows[i].CorrectReviews) / float64(rows[i].TotalReviews) * 100)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Accuracy > rows[j].Accuracy })

	return &StrengthsReport{Sets: rows}, nil
}
