// Package feedback stores seller reactions to bot answers for later review
package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/selivandex/seller-bot/internal/adapters/database"
	"github.com/selivandex/seller-bot/pkg/models"
)

// Repository handles feedback persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates new feedback repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Save stores one feedback record. Unknown feedback types are normalized
// before insert so the stats stay queryable.
func (r *Repository) Save(ctx context.Context, rec *models.FeedbackRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Status == "" {
		rec.Status = models.FeedbackStatusNew
	}
	rec.FeedbackType = models.NormalizeFeedbackType(rec.FeedbackType)

	// tools_used is NOT NULL in the store, a nil slice would insert NULL
	if rec.ToolsUsed == nil {
		rec.ToolsUsed = pq.StringArray{}
	}

	query := `
		INSERT INTO agent_feedback (id, chat_id, feedback_type, comment, question, response, tools_used, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		rec.ID, rec.ChatID, rec.FeedbackType, rec.Comment,
		rec.Question, rec.Response, rec.ToolsUsed, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	return nil
}

// Recent returns the latest feedback records for admin review
func (r *Repository) Recent(ctx context.Context, limit int) ([]models.FeedbackRecord, error) {
	query := `
		SELECT id, chat_id, feedback_type, comment, question, response, tools_used, status, created_at
		FROM agent_feedback
		ORDER BY created_at DESC
		LIMIT $1
	`

	var records []models.FeedbackRecord
	if err := r.db.DB().SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	return records, nil
}

// Stats returns feedback counts grouped by type and status since a cutoff
func (r *Repository) Stats(ctx context.Context, since time.Time) ([]models.FeedbackStat, error) {
	query := `
		SELECT feedback_type, status, COUNT(*) AS cnt
		FROM agent_feedback
		WHERE created_at >= $1
		GROUP BY feedback_type, status
		ORDER BY feedback_type, status
	`

	var stats []models.FeedbackStat
	if err := r.db.DB().SelectContext(ctx, &stats, query, since); err != nil {
		return nil, fmt.Errorf("failed to load feedback stats: %w", err)
	}

	return stats, nil
}

// MarkReviewed flips one feedback record to reviewed status
func (r *Repository) MarkReviewed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE agent_feedback SET status = $1 WHERE id = $2`

	res, err := r.db.DB().ExecContext(ctx, query, models.FeedbackStatusReviewed, id)
	if err != nil {
		return fmt.Errorf("failed to mark feedback reviewed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return models.ErrNoData
	}

	return nil
}
