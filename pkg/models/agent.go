package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ConversationEntry is one question/answer exchange stored in
// agent_conversations
type ConversationEntry struct {
	ID        uuid.UUID      `db:"id"`
	ChatID    int64          `db:"chat_id"`
	SessionID uuid.UUID      `db:"session_id"`
	Question  string         `db:"question"`
	Response  string         `db:"response"`
	ToolsUsed pq.StringArray `db:"tools_used"`
	CreatedAt time.Time      `db:"created_at"`
}

// Feedback types a user can report. Unknown input normalizes to
// FeedbackOther.
const (
	FeedbackIncorrectData       = "incorrect_data"
	FeedbackWrongRecommendation = "wrong_recommendation"
	FeedbackMissingInfo         = "missing_info"
	FeedbackWrongCalculation    = "wrong_calculation"
	FeedbackOther               = "other"
)

// NormalizeFeedbackType maps arbitrary input to a known feedback type
func NormalizeFeedbackType(t string) string {
	switch t {
	case FeedbackIncorrectData, FeedbackWrongRecommendation,
		FeedbackMissingInfo, FeedbackWrongCalculation, FeedbackOther:
		return t
	default:
		return FeedbackOther
	}
}

// Feedback review lifecycle
const (
	FeedbackStatusNew      = "new"
	FeedbackStatusReviewed = "reviewed"
)

// FeedbackRecord is one reported issue stored in agent_feedback
type FeedbackRecord struct {
	ID           uuid.UUID      `db:"id"`
	ChatID       int64          `db:"chat_id"`
	FeedbackType string         `db:"feedback_type"`
	Comment      string         `db:"comment"`
	Question     string         `db:"question"`
	Response     string         `db:"response"`
	ToolsUsed    pq.StringArray `db:"tools_used"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
}

// FeedbackStat is one row of the grouped feedback report
type FeedbackStat struct {
	FeedbackType string `db:"feedback_type"`
	Status       string `db:"status"`
	Count        int64  `db:"cnt"`
}

// UsageStat aggregates bot activity for the admin report
type UsageStat struct {
	Questions int64 `db:"questions"`
	Chats     int64 `db:"chats"`
}

// Subscription is one chat subscribed to scheduled messages
type Subscription struct {
	ChatID        int64     `db:"chat_id"`
	DigestEnabled bool      `db:"digest_enabled"`
	AlertsEnabled bool      `db:"alerts_enabled"`
	CreatedAt     time.Time `db:"created_at"`
}
