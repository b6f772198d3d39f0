package gamification

import (
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNegativeAmount = errors.New("xp amount must not be negative")
)

// AwardResult is the aggregate snapshot returned after an award commits.
type AwardResult struct {
	TotalXP         int                   `json:"total_xp"`
	Level           int                   `json:"level"`
	League          League                `json:"league"`
	CurrentStreak   int                   `json:"current_streak"`
	XPEarned        int                   `json:"xp_earned"`
	NewAchievements []UnlockedAchievement `json:"new_achievements"`
}

// maxAwardRetries bounds transparent retries on write conflicts.
const maxAwardRetries = 3

// AwardXP is the public entry point for every XP-earning action. The ledger
// append, the aggregate update and the achievement pass run in one
// transaction holding the user's aggregate row, and the transaction is
// retried a bounded number of times on write conflicts.
func AwardXP(gdb *gorm.DB, userID uint, amount int, kind XpEventKind) (*AwardResult, error) {
	if amount < 0 {
		return nil, ErrNegativeAmount
	}
	var result *AwardResult
	err := withConflictRetry(func() error {
		return gdb.Transaction(func(tx *gorm.DB) error {
			r, err := AwardXPTx(tx, userID, amount, kind)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AwardXPTx runs the award inside a transaction the caller already holds.
// Used when the triggering action and the award must commit together
// (review submission, friend acceptance paying two users at once).
func AwardXPTx(tx *gorm.DB, userID uint, amount int, kind XpEventKind) (*AwardResult, error) {
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	gam, err := lockOrCreateAggregate(tx, userID)
	if err != nil {
		return nil, err
	}

	event := XpEvent{
		UserID:    userID,
		XpAmount:  amount,
		EventKind: kind,
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, err
	}

	gam.TotalXP += amount
	gam.Level = CalculateLevel(gam.TotalXP)
	gam.League = CalculateLeague(gam.TotalXP)

	UpdateStreak(gam, time.Now().UTC())

	newlyUnlocked, err := checkAchievements(tx, userID, gam)
	if err != nil {
		return nil, err
	}

	if err := tx.Save(gam).Error; err != nil {
		return nil, err
	}

	if len(newlyUnlocked) > 0 {
		log.Printf("[Gamification] user %d unlocked %d achievement(s)", userID, len(newlyUnlocked))
	}

	return &AwardResult{
		TotalXP:         gam.TotalXP,
		Level:           gam.Level,
		League:          gam.League,
		CurrentStreak:   gam.CurrentStreak,
		XPEarned:        amount,
		NewAchievements: newlyUnlocked,
	}, nil
}

// lockOrCreateAggregate fetches the user's aggregate row under a row lock,
// creating it with zero defaults on first activity. No-aggregate is not an
// error.
func lockOrCreateAggregate(tx *gorm.DB, userID uint) (*UserGamification, error) {
	var gam UserGamification
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("user_id = ?", userID).First(&gam).Error
	if err == nil {
		return &gam, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	gam = UserGamification{
		UserID: userID,
		Level:  1,
		League: LeagueBronze,
	}
	if err := tx.Create(&gam).Error; err != nil {
		return nil, err
	}
	return &gam, nil
}

// withConflictRetry retries fn when the store reports a concurrent-write
// conflict. The award is a whole transaction, so retrying it is safe.
func withConflictRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxAwardRetries; attempt++ {
		err = fn()
		if err == nil || !isConflictError(err) {
			return err
		}
		log.Printf("[Gamification] write conflict, retrying (%d/%d): %v", attempt+1, maxAwardRetries, err)
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	return err
}

func isConflictError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "database is locked") ||
		errors.Is(err, gorm.ErrDuplicatedKey)
}
