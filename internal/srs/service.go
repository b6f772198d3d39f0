package srs

import (
	"errors"
	"time"

	"flashlingo/internal/card"
	"flashlingo/internal/gamification"

	"gorm.io/gorm"
)

var ErrCardNotFound = errors.New("card not found")

// ReviewResult is what the review endpoint returns to the client.
type ReviewResult struct {
	CardID          uint                               `json:"card_id"`
	EaseFactor      float64                            `json:"ease_factor"`
	Interval        int                                `json:"interval"`
	NextReviewAt    time.Time                          `json:"next_review_at"`
	IsCorrect       bool                               `json:"is_correct"`
	XPEarned        int                                `json:"xp_earned"`
	NewAchievements []gamification.UnlockedAchievement `json:"new_achievements"`
}

// SubmitReview applies one review to the card's scheduling state and pays
// the review XP. The progress update and the gamification update commit in
// a single transaction.
func SubmitReview(gdb *gorm.DB, userID, cardID uint, rating Rating) (*ReviewResult, error) {
	quality, err := QualityForRating(rating)
	if err != nil {
		return nil, err
	}

	var c card.Card
	if err := gdb.First(&c, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	if _, err := card.GetSetForUser(gdb, c.CardSetID, userID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var result *ReviewResult
	err = gdb.Transaction(func(tx *gorm.DB) error {
		var progress CardProgress
		err := tx.Where("user_id = ? AND card_id = ?", userID, cardID).First(&progress).Error
		firstReview := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !firstReview {
			return err
		}

		if firstReview {
			sm2 := CalculateSM2(SeedEaseFactor, SeedInterval, SeedRepetitions, quality)
			progress = CardProgress{
				UserID:       userID,
				CardID:       cardID,
				EaseFactor:   sm2.EaseFactor,
				Interval:     sm2.Interval,
				Repetitions:  sm2.Repetitions,
				NextReviewAt: now.AddDate(0, 0, sm2.Interval),
				TotalReviews: 1,
			}
			progress.LastReviewedAt = &now
			if quality >= 3 {
				progress.CorrectReviews = 1
			}
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
		} else {
			sm2 := CalculateSM2(progress.EaseFactor, progress.Interval, progress.Repetitions, quality)
			progress.EaseFactor = sm2.EaseFactor
			progress.Interval = sm2.Interval
			progress.Repetitions = sm2.Repetitions
			progress.NextReviewAt = now.AddDate(0, 0, sm2.Interval)
			progress.LastReviewedAt = &now
			progress.TotalReviews++
			if quality >= 3 {
				progress.CorrectReviews++
			}
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
		}

		award, err := gamification.AwardXPTx(tx, userID, ReviewXP(rating), gamification.EventReview)
		if err != nil {
			return err
		}

		result = &ReviewResult{
			CardID:          cardID,
			EaseFactor:      progress.EaseFactor,
			Interval:        progress.Interval,
			NextReviewAt:    progress.NextReviewAt,
			IsCorrect:       quality >= 3,
			XPEarned:        award.XPEarned,
			NewAchievements: award.NewAchievements,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StudyCard is a card with the caller's scheduling state attached, nil for
// cards never reviewed.
type StudyCard struct {
	card.Card
	Progress *CardProgress `json:"progress,omitempty"`
}

// DueCards returns cards to study from a set: unreviewed cards first (when
// newFirst is set), then cards whose next review is due. Practice mode
// ignores the schedule and returns all cards in order.
func DueCards(gdb *gorm.DB, userID, setID uint, limit int, newFirst, practice bool) ([]StudyCard, error) {
	set, err := card.GetSetForUser(gdb, setID, userID)
	if err != nil {
		return nil, err
	}

	if practice {
		var cards []card.Card
		if err := gdb.Where("card_set_id = ?", set.ID).
			Order("order_index, created_at").
			Limit(limit).
			Find(&cards).Error; err != nil {
			return nil, err
		}
		return attachProgress(gdb, userID, cards)
	}

	now := time.Now().UTC()
	var results []StudyCard

	if newFirst {
		var newCards []card.Card
		err := gdb.
			Joins("LEFT JOIN card_progress ON card_progress.card_id = cards.id AND card_progress.user_id = ?", userID).
			Where("cards.card_set_id = ? AND card_progress.id IS NULL", set.ID).
			Order("cards.order_index, cards.created_at").
			Limit(limit).
			Find(&newCards).Error
		if err != nil {
			return nil, err
		}
		for _, c := range newCards {
			results = append(results, StudyCard{Card: c})
		}
	}

	remaining := limit - len(results)
	if remaining > 0 {
		var due []CardProgress
		err := gdb.
			Joins("JOIN cards ON cards.id = card_progress.card_id").
			Where("cards.card_set_id = ? AND card_progress.user_id = ? AND card_progress.next_review_at <= ?", set.ID, userID, now).
			Order("card_progress.next_review_at ASC").
			Limit(remaining).
			Find(&due).Error
		if err != nil {
			return nil, err
		}
		for i := range due {
			var c card.Card
			if err := gdb.First(&c, due[i].CardID).Error; err != nil {
				return nil, err
			}
			p := due[i]
			results = append(results, StudyCard{Card: c, Progress: &p})
		}
	}

	return results, nil
}

func attachProgress(gdb *gorm.DB, userID uint, cards []card.Card) ([]StudyCard, error) {
	ids := make([]uint, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	var progress []CardProgress
	if len(ids) > 0 {
		if err := gdb.Where("user_id = ? AND card_id IN ?", userID, ids).Find(&progress).Error; err != nil {
			return nil, err
		}
	}
	byCard := make(map[uint]*CardProgress, len(progress))
	for i := range progress {
		byCard[progress[i].CardID] = &progress[i]
	}

	results := make([]StudyCard, 0, len(cards))
	for _, c := range cards {
		results = append(results, StudyCard{Card: c, Progress: byCard[c.ID]})
	}
	return results, nil
}

// SetStudyProgress summarizes how far a user is through a set.
type SetStudyProgress struct {
	TotalCards    int64 `json:"total_cards"`
	LearnedCards  int64 `json:"learned_cards"`
	DueCards      int64 `json:"due_cards"`
	MasteredCards int64 `json:"mastered_cards"`
}

// MasteredInterval is the interval, in days, from which a card counts as
// mastered.
const MasteredInterval = 21

// StudyProgressForSet computes the study summary for one set: total cards,
// cards with at least one review, cards due now (never-reviewed included),
// and mastered cards.
func StudyProgressForSet(gdb *gorm.DB, userID, setID uint) (*SetStudyProgress, error) {
	set, err := card.GetSetForUser(gdb, setID, userID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var out SetStudyProgress

	if err := gdb.Model(&card.Card{}).Where("card_set_id = ?", set.ID).
		Count(&out.TotalCards).Error; err != nil {
		return nil, err
	}

	if err := gdb.Model(&CardProgress{}).
		Joins("JOIN cards ON cards.id = card_progress.card_id").
		Where("card_progress.user_id = ? AND cards.card_set_id = ?", userID, set.ID).
		Count(&out.LearnedCards).Error; err != nil {
		return nil, err
	}

	if err := gdb.Model(&CardProgress{}).
		Joins("JOIN cards ON cards.id = card_progress.card_id").
		Where("card_progress.user_id = ? AND cards.card_set_id = ? AND card_progress.next_review_at <= ?", userID, set.ID, now).
		Count(&out.DueCards).Error; err != nil {
		return nil, err
	}
	// Never-reviewed cards count as due
	out.DueCards += out.TotalCards - out.LearnedCards

	if err := gdb.Model(&CardProgress{}).
		Joins("JOIN cards ON cards.id = card_progress.card_id").
		Where("card_progress.user_id = ? AND cards.card_set_id = ? AND card_progress.interval_days >= ?", userID, set.ID, MasteredInterval).
		Count(&out.MasteredCards).Error; err != nil {
		return nil, err
	}

	return &out, nil
}
