package card

import (
	"errors"

	"flashlingo/internal/gamification"
	"flashlingo/internal/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSetNotFound     = errors.New("card set not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrSetLimitReached = errors.New("card set limit reached")
	ErrAlreadyShared   = errors.New("set already shared with this user")
)

type CreateSetInput struct {
	Title           string
	Description     string
	Category        string
	DifficultyLevel user.LanguageLevel
	IsPublic        bool
}

type CardInput struct {
	FrontText       string
	BackText        string
	ExampleSentence string
	ImageURL        string
	AudioURL        string
	CardType        CardType
	OrderIndex      int
}

// GetSetForUser loads a set the user can study: their own, or a public one.
func GetSetForUser(gdb *gorm.DB, setID, userID uint) (*CardSet, error) {
	var set CardSet
	if err := gdb.First(&set, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	if set.UserID != userID && !set.IsPublic {
		return nil, ErrAccessDenied
	}
	return &set, nil
}

// CreateSet makes a new card set and pays the set-creation XP in the same
// transaction. Free users are capped at maxFreeSets.
func CreateSet(gdb *gorm.DB, u *user.User, input CreateSetInput, maxFreeSets int) (*CardSet, *gamification.AwardResult, error) {
	if !u.IsPremium {
		var count int64
		if err := gdb.Model(&CardSet{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
			return nil, nil, err
		}
		if count >= int64(maxFreeSets) {
			return nil, nil, ErrSetLimitReached
		}
	}

	level := input.DifficultyLevel
	if level == "" {
		level = user.LevelA1
	}
	set := CardSet{
		UserID:          u.ID,
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		DifficultyLevel: level,
		IsPublic:        input.IsPublic,
	}

	var award *gamification.AwardResult
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&set).Error; err != nil {
			return err
		}
		r, err := gamification.AwardXPTx(tx, u.ID, gamification.XPSetCreated, gamification.EventSetCreated)
		if err != nil {
			return err
		}
		award = r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &set, award, nil
}

// CreateGeneratedSet stores a set whose cards were produced by the external
// generation service, and pays the AI-generation XP instead of the
// set-creation XP.
func CreateGeneratedSet(gdb *gorm.DB, u *user.User, input CreateSetInput, cards []CardInput) (*CardSet, *gamification.AwardResult, error) {
	level := input.DifficultyLevel
	if level == "" {
		level = u.LanguageLevel
	}
	set := CardSet{
		UserID:          u.ID,
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		DifficultyLevel: level,
		IsPublic:        input.IsPublic,
		IsAIGenerated:   true,
		CardCount:       len(cards),
	}

	var award *gamification.AwardResult
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&set).Error; err != nil {
			return err
		}
		for i, in := range cards {
			c := newCard(set.ID, in)
			if c.OrderIndex == 0 {
				c.OrderIndex = i
			}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
		}
		r, err := gamification.AwardXPTx(tx, u.ID, gamification.XPAIGeneration, gamification.EventAIGeneration)
		if err != nil {
			return err
		}
		award = r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &set, award, nil
}

func newCard(setID uint, in CardInput) Card {
	cardType := in.CardType
	if cardType == "" {
		cardType = TypeFlashcard
	}
	return Card{
		CardSetID:       setID,
		FrontText:       in.FrontText,
		BackText:        in.BackText,
		ExampleSentence: in.ExampleSentence,
		ImageURL:        in.ImageURL,
		AudioURL:        in.AudioURL,
		CardType:        cardType,
		OrderIndex:      in.OrderIndex,
	}
}

// ListSets returns the user's own sets, newest first.
func ListSets(gdb *gorm.DB, userID uint, offset, limit int) ([]CardSet, int64, error) {
	var total int64
	if err := gdb.Model(&CardSet{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var sets []CardSet
	err := gdb.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&sets).Error
	return sets, total, err
}

// AddCard appends a card to a set the user owns.
func AddCard(gdb *gorm.DB, userID, setID uint, input CardInput) (*Card, error) {
	var set CardSet
	if err := gdb.First(&set, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	if set.UserID != userID {
		return nil, ErrAccessDenied
	}

	c := newCard(set.ID, input)
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		return tx.Model(&set).Update("card_count", gorm.Expr("card_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCards returns a set's cards in study order.
func ListCards(gdb *gorm.DB, userID, setID uint) ([]Card, error) {
	set, err := GetSetForUser(gdb, setID, userID)
	if err != nil {
		return nil, err
	}
	var cards []Card
	err = gdb.Where("card_set_id = ?", set.ID).
		Order("order_index, created_at").
		Find(&cards).Error
	return cards, err
}

// DeleteCard removes a card from a set the user owns.
func DeleteCard(gdb *gorm.DB, userID, cardID uint) error {
	var c Card
	if err := gdb.First(&c, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotFound
		}
		return err
	}
	var set CardSet
	if err := gdb.First(&set, c.CardSetID).Error; err != nil {
		return err
	}
	if set.UserID != userID {
		return ErrAccessDenied
	}
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&c).Error; err != nil {
			return err
		}
		return tx.Model(&set).Update("card_count", gorm.Expr("card_count - 1")).Error
	})
}

// DeleteSet removes a set the user owns, cards included.
func DeleteSet(gdb *gorm.DB, userID, setID uint) error {
	var set CardSet
	if err := gdb.First(&set, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSetNotFound
		}
		return err
	}
	if set.UserID != userID {
		return ErrAccessDenied
	}
	return gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_set_id = ?", set.ID).Delete(&Card{}).Error; err != nil {
			return err
		}
		return tx.Delete(&set).Error
	})
}

// ShareSet shares a set the user owns with another user, once per recipient.
func ShareSet(gdb *gorm.DB, ownerID, setID, recipientID uint) (*SharedCardSet, error) {
	var set CardSet
	if err := gdb.First(&set, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	if set.UserID != ownerID {
		return nil, ErrAccessDenied
	}

	var existing int64
	if err := gdb.Model(&SharedCardSet{}).
		Where("card_set_id = ? AND shared_with_id = ?", setID, recipientID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyShared
	}

	shared := SharedCardSet{
		CardSetID:    setID,
		SharedByID:   ownerID,
		SharedWithID: recipientID,
		ShareToken:   uuid.NewString(),
	}
	if err := gdb.Create(&shared).Error; err != nil {
		return nil, err
	}
	return &shared, nil
}

// SharedWithUser lists sets other users shared with this one.
func SharedWithUser(gdb *gorm.DB, userID uint) ([]CardSet, error) {
	var sets []CardSet
	err := gdb.Joins("JOIN shared_card_sets ON shared_card_sets.card_set_id = card_sets.id").
		Where("shared_card_sets.shared_with_id = ?", userID).
		Find(&sets).Error
	return sets, err
}
