package card

import (
	"time"

	"flashlingo/internal/user"

	"gorm.io/gorm"
)

type CardType string

const (
	TypeFlashcard      CardType = "flashcard"
	TypeFillBlank      CardType = "fill_blank"
	TypeMatch          CardType = "match"
	TypeListening      CardType = "listening"
	TypeMultipleChoice CardType = "multiple_choice"
	TypeSentenceBuild  CardType = "sentence_build"
	TypeVisual         CardType = "visual"
)

type CardSet struct {
	ID              uint               `json:"id" gorm:"primaryKey"`
	UserID          uint               `json:"user_id" gorm:"index;not null"`
	Title           string             `json:"title" gorm:"size:255;not null"`
	Description     string             `json:"description" gorm:"type:text"`
	Category        string             `json:"category" gorm:"size:100"`
	DifficultyLevel user.LanguageLevel `json:"difficulty_level" gorm:"type:varchar(2);not null;default:'A1'"`
	IsPublic        bool               `json:"is_public" gorm:"not null;default:false"`
	IsAIGenerated   bool               `json:"is_ai_generated" gorm:"not null;default:false"`
	CardCount       int                `json:"card_count" gorm:"not null;default:0"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt     `json:"-" gorm:"index"`
	Cards           []Card             `json:"cards,omitempty" gorm:"foreignKey:CardSetID;constraint:OnDelete:CASCADE"`
}

type Card struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	CardSetID       uint           `json:"card_set_id" gorm:"index;not null"`
	FrontText       string         `json:"front_text" gorm:"size:500;not null"`
	BackText        string         `json:"back_text" gorm:"size:500;not null"`
	ExampleSentence string         `json:"example_sentence" gorm:"type:text"`
	ImageURL        string         `json:"image_url" gorm:"size:512"`
	AudioURL        string         `json:"audio_url" gorm:"size:512"`
	CardType        CardType       `json:"card_type" gorm:"type:varchar(20);not null;default:'flashcard'"`
	OrderIndex      int            `json:"order_index" gorm:"not null;default:0"`
	CreatedAt       time.Time      `json:"createdAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// SharedCardSet records one set shared with one recipient.
type SharedCardSet struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CardSetID    uint      `json:"card_set_id" gorm:"uniqueIndex:uq_shared_set_recipient;not null"`
	SharedByID   uint      `json:"shared_by_id" gorm:"index;not null"`
	SharedWithID uint      `json:"shared_with_id" gorm:"uniqueIndex:uq_shared_set_recipient;not null"`
	ShareToken   string    `json:"share_token" gorm:"size:36;uniqueIndex;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}
