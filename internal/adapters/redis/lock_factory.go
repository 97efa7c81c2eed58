package redis

import (
	"context"

	"github.com/amyangfei/redlock-go/v3/redlock"
)

// LockFactory creates distributed locks for chats
type LockFactory interface {
	CreateChatLock(chatID int64) ChatLock
}

// RedisLockFactory creates Redis-based distributed locks
type RedisLockFactory struct {
	lockManager *redlock.RedLock
}

// NewRedisLockFactory creates new Redis lock factory
func NewRedisLockFactory(lockManager *redlock.RedLock) *RedisLockFactory {
	return &RedisLockFactory{
		lockManager: lockManager,
	}
}

// CreateChatLock creates a distributed lock for specific chat
func (f *RedisLockFactory) CreateChatLock(chatID int64) ChatLock {
	return NewDistributedLock(f.lockManager, chatID)
}

// MockLockFactory for testing (always succeeds)
type MockLockFactory struct{}

// NewMockLockFactory creates mock lock factory for tests
func NewMockLockFactory() *MockLockFactory {
	return &MockLockFactory{}
}

// CreateChatLock creates a mock lock that always succeeds
func (f *MockLockFactory) CreateChatLock(chatID int64) ChatLock {
	return &MockLock{chatID: chatID}
}

// MockLock is a no-op lock for testing
type MockLock struct {
	chatID int64
}

func (l *MockLock) TryAcquire(ctx context.Context) (bool, error) {
	return true, nil // Always succeeds
}

func (l *MockLock) Release(ctx context.Context) error {
	return nil // Always succeeds
}

func (l *MockLock) CheckLockHeld(ctx context.Context) (bool, error) {
	return true, nil // Always held
}

func (l *MockLock) GetChatID() int64 {
	return l.chatID
}
