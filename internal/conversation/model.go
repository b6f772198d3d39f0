package conversation

import (
	"time"

	"gorm.io/datatypes"
)

// Conversation is one practice dialogue session. Messages and feedback are
// stored as JSON documents; the dialogue partner itself lives outside this
// service.
type Conversation struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"user_id" gorm:"index:ix_conversations_user_started;not null"`
	SessionID  string         `json:"session_id" gorm:"size:36;uniqueIndex;not null"`
	Scenario   string         `json:"scenario" gorm:"size:255;not null"`
	StartedAt  time.Time      `json:"started_at" gorm:"index:ix_conversations_user_started;autoCreateTime;not null"`
	EndedAt    *time.Time     `json:"ended_at"`
	Messages   datatypes.JSON `json:"messages"`
	Feedback   datatypes.JSON `json:"feedback"`
	TotalTurns int            `json:"total_turns" gorm:"not null;default:0"`
}

// Message is one stored dialogue turn inside the Messages document.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
