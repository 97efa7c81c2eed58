// Package conversations persists question/answer history per chat.
// Postgres is the source of truth; recent history is cached in Redis
// so the reasoning loop doesn't hit the store on every message.
package conversations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/selivandex/seller-bot/internal/adapters/database"
	"github.com/selivandex/seller-bot/internal/adapters/redis"
	"github.com/selivandex/seller-bot/pkg/logger"
	"github.com/selivandex/seller-bot/pkg/models"
)

// A session groups consecutive messages; a gap longer than this starts a new one
const sessionGap = 30 * time.Minute

const historyCacheTTL = 24 * time.Hour

// Repository handles conversation persistence with Redis read-through cache
type Repository struct {
	db    *database.DB
	cache *redis.Client // nil disables caching
}

// NewRepository creates new conversations repository
func NewRepository(db *database.DB, cache *redis.Client) *Repository {
	return &Repository{db: db, cache: cache}
}

// Save stores one question/answer exchange and invalidates the chat cache
func (r *Repository) Save(ctx context.Context, entry *models.ConversationEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	// tools_used is NOT NULL in the store, a nil slice would insert NULL
	if entry.ToolsUsed == nil {
		entry.ToolsUsed = pq.StringArray{}
	}

	query := `
		INSERT INTO agent_conversations (id, chat_id, session_id, question, response, tools_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.DB().ExecContext(ctx, query,
		entry.ID, entry.ChatID, entry.SessionID,
		entry.Question, entry.Response, entry.ToolsUsed, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation entry: %w", err)
	}

	r.invalidateCache(ctx, entry.ChatID)

	return nil
}

// Recent returns the last entries for a chat, newest first
func (r *Repository) Recent(ctx context.Context, chatID int64, limit int) ([]models.ConversationEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	if cached, ok := r.readCache(ctx, chatID, limit); ok {
		return cached, nil
	}

	query := `
		SELECT id, chat_id, session_id, question, response, tools_used, created_at
		FROM agent_conversations
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var entries []models.ConversationEntry
	if err := r.db.DB().SelectContext(ctx, &entries, query, chatID, limit); err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	r.writeCache(ctx, chatID, entries)

	return entries, nil
}

// ActiveSession returns the session ID to attach the next message to.
// A fresh session starts when the chat has no history or the last
// message is older than the session gap.
func (r *Repository) ActiveSession(ctx context.Context, chatID int64) (uuid.UUID, error) {
	query := `
		SELECT session_id, created_at
		FROM agent_conversations
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var last struct {
		SessionID uuid.UUID `db:"session_id"`
		CreatedAt time.Time `db:"created_at"`
	}

	err := r.db.DB().GetContext(ctx, &last, query, chatID)
	if err != nil {
		// No history yet, start a new session
		return uuid.New(), nil
	}

	if time.Since(last.CreatedAt) > sessionGap {
		return uuid.New(), nil
	}

	return last.SessionID, nil
}

// CountSince returns the number of exchanges for a chat since a point in time
func (r *Repository) CountSince(ctx context.Context, chatID int64, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM agent_conversations WHERE chat_id = $1 AND created_at >= $2`

	var count int64
	if err := r.db.DB().GetContext(ctx, &count, query, chatID, since); err != nil {
		return 0, fmt.Errorf("failed to count conversation entries: %w", err)
	}

	return count, nil
}

// Stats aggregates activity across all chats since a point in time
func (r *Repository) Stats(ctx context.Context, since time.Time) (models.UsageStat, error) {
	query := `
		SELECT COUNT(*) AS questions, COUNT(DISTINCT chat_id) AS chats
		FROM agent_conversations
		WHERE created_at >= $1
	`

	var stats models.UsageStat
	if err := r.db.DB().GetContext(ctx, &stats, query, since); err != nil {
		return models.UsageStat{}, fmt.Errorf("failed to load usage stats: %w", err)
	}

	return stats, nil
}

func cacheKey(chatID int64) string {
	return fmt.Sprintf("chat:history:%d", chatID)
}

func (r *Repository) readCache(ctx context.Context, chatID int64, limit int) ([]models.ConversationEntry, bool) {
	if r.cache == nil {
		return nil, false
	}

	raw, err := r.cache.Get(ctx, cacheKey(chatID)).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.Debug("history cache read failed", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		return nil, false
	}

	var entries []models.ConversationEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Warn("corrupt history cache entry, dropping", zap.Int64("chat_id", chatID), zap.Error(err))
		r.invalidateCache(ctx, chatID)
		return nil, false
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, true
}

func (r *Repository) writeCache(ctx context.Context, chatID int64, entries []models.ConversationEntry) {
	if r.cache == nil || len(entries) == 0 {
		return
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := r.cache.Set(ctx, cacheKey(chatID), raw, historyCacheTTL).Err(); err != nil {
		logger.Debug("history cache write failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Repository) invalidateCache(ctx context.Context, chatID int64) {
	if r.cache == nil {
		return
	}

	if err := r.cache.Del(ctx, cacheKey(chatID)).Err(); err != nil {
		logger.Debug("history cache invalidation failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
