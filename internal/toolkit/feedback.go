package toolkit

import (
	"context"

	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// RecordFeedback stores a seller's complaint about an answer. Unknown
// feedback types are kept under "other" rather than rejected, a seller
// reporting a problem should never be turned away on taxonomy.
func (t *LocalToolkit) RecordFeedback(ctx context.Context, chatID int64, feedbackType, comment string) (string, error) {
	logger.Debug("toolkit: record_feedback",
		zap.Int64("chat_id", chatID),
		zap.String("feedback_type", feedbackType),
	)

	rec := &models.FeedbackRecord{
		ChatID:       chatID,
		FeedbackType: feedbackType,
		Comment:      comment,
	}
	if err := t.feedbackRepo.Save(ctx, rec); err != nil {
		return "", err
	}

	return "Спасибо! Замечание записано, мы разберёмся.", nil
}
