// Package subscriptions tracks which chats receive scheduled digests
// and anomaly alerts
package subscriptions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/selivandex/seller-bot/internal/adapters/database"
	"github.com/selivandex/seller-bot/pkg/models"
)

// Repository handles chat subscription persistence
type Repository struct {
	db *database.DB
}

// NewRepository creates new subscriptions repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the subscription for a chat, nil when the chat never subscribed
func (r *Repository) Get(ctx context.Context, chatID int64) (*models.Subscription, error) {
	query := `
		SELECT chat_id, digest_enabled, alerts_enabled, created_at
		FROM chat_subscriptions
		WHERE chat_id = $1
	`

	var sub models.Subscription
	err := r.db.DB().GetContext(ctx, &sub, query, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return &sub, nil
}

// SetDigest switches the morning digest for a chat, creating the
// subscription row when needed
func (r *Repository) SetDigest(ctx context.Context, chatID int64, enabled bool) error {
	return r.upsert(ctx, chatID, "digest_enabled", enabled)
}

// SetAlerts switches anomaly alerts for a chat
func (r *Repository) SetAlerts(ctx context.Context, chatID int64, enabled bool) error {
	return r.upsert(ctx, chatID, "alerts_enabled", enabled)
}

func (r *Repository) upsert(ctx context.Context, chatID int64, column string, enabled bool) error {
	// Column name comes from the two callers above, never from input
	query := fmt.Sprintf(`
		INSERT INTO chat_subscriptions (chat_id, %s, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO UPDATE SET %s = $2
	`, column, column)

	if _, err := r.db.DB().ExecContext(ctx, query, chatID, enabled, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	return nil
}

// ListDigestEnabled returns chats subscribed to the morning digest
func (r *Repository) ListDigestEnabled(ctx context.Context) ([]models.Subscription, error) {
	return r.list(ctx, "digest_enabled")
}

// ListAlertsEnabled returns chats subscribed to anomaly alerts
func (r *Repository) ListAlertsEnabled(ctx context.Context) ([]models.Subscription, error) {
	return r.list(ctx, "alerts_enabled")
}

func (r *Repository) list(ctx context.Context, column string) ([]models.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT chat_id, digest_enabled, alerts_enabled, created_at
		FROM chat_subscriptions
		WHERE %s = true
		ORDER BY chat_id
	`, column)

	var subs []models.Subscription
	if err := r.db.DB().SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return subs, nil
}
