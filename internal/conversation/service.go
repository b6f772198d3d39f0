package conversation

import (
	"encoding/json"
	"errors"
	"time"

	"flashlingo/internal/gamification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound     = errors.New("conversation not found")
	ErrAlreadyEnded = errors.New("conversation has already ended")
)

// Feedback is the end-of-conversation summary stored on the row.
type Feedback struct {
	TotalTurns int `json:"total_turns"`
	UserTurns  int `json:"user_turns"`
	XPEarned   int `json:"xp_earned"`
}

// Start opens a new practice conversation for a scenario.
func Start(gdb *gorm.DB, userID uint, scenario string) (*Conversation, error) {
	conv := Conversation{
		UserID:    userID,
		SessionID: uuid.NewString(),
		Scenario:  scenario,
		Messages:  []byte("[]"),
	}
	if err := gdb.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// lockLoad fetches the conversation inside tx with the row held, so the
// read-modify-write callers cannot interleave.
func lockLoad(tx *gorm.DB, conversationID, userID uint) (*Conversation, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var conv Conversation
	if err := q.Where("id = ? AND user_id = ?", conversationID, userID).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// AppendTurn stores one dialogue turn. A user turn advances the turn
// counter; assistant turns (supplied by the external dialogue partner) do
// not. The message log is read, extended and written back in a single
// transaction holding the conversation row.
func AppendTurn(gdb *gorm.DB, conversationID, userID uint, msg Message) (*Conversation, error) {
	var conv *Conversation
	err := gdb.Transaction(func(tx *gorm.DB) error {
		row, err := lockLoad(tx, conversationID, userID)
		if err != nil {
			return err
		}
		if row.EndedAt != nil {
			return ErrAlreadyEnded
		}

		var messages []Message
		if len(row.Messages) > 0 {
			if err := json.Unmarshal(row.Messages, &messages); err != nil {
				return err
			}
		}
		messages = append(messages, msg)
		raw, err := json.Marshal(messages)
		if err != nil {
			return err
		}

		row.Messages = raw
		if msg.Role == "user" {
			row.TotalTurns++
		}
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		conv = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// End closes the conversation, stores the feedback summary and pays the
// conversation XP, all in one transaction. Ending twice is rejected.
func End(gdb *gorm.DB, conversationID, userID uint) (*Conversation, *gamification.AwardResult, error) {
	now := time.Now().UTC()
	var conv *Conversation
	var award *gamification.AwardResult
	err := gdb.Transaction(func(tx *gorm.DB) error {
		row, err := lockLoad(tx, conversationID, userID)
		if err != nil {
			return err
		}
		if row.EndedAt != nil {
			return ErrAlreadyEnded
		}

		var messages []Message
		if len(row.Messages) > 0 {
			if err := json.Unmarshal(row.Messages, &messages); err != nil {
				return err
			}
		}
		userTurns := 0
		for _, m := range messages {
			if m.Role == "user" {
				userTurns++
			}
		}

		feedback := Feedback{
			TotalTurns: row.TotalTurns,
			UserTurns:  userTurns,
			XPEarned:   gamification.XPConversation,
		}
		rawFeedback, err := json.Marshal(feedback)
		if err != nil {
			return err
		}

		row.EndedAt = &now
		row.Feedback = rawFeedback
		if err := tx.Save(row).Error; err != nil {
			return err
		}
		r, err := gamification.AwardXPTx(tx, userID, gamification.XPConversation, gamification.EventConversation)
		if err != nil {
			return err
		}
		conv = row
		award = r
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return conv, award, nil
}

// List returns the user's conversations, newest first.
func List(gdb *gorm.DB, userID uint, offset, limit int) ([]Conversation, error) {
	var convs []Conversation
	err := gdb.Where("user_id = ?", userID).
		Order("started_at DESC").
		Offset(offset).Limit(limit).
		Find(&convs).Error
	return convs, err
}
