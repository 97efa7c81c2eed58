package redis

import "context"

// ChatLock serializes question processing for a single chat across pods
type ChatLock interface {
	// TryAcquire attempts to acquire the lock, returns true if acquired
	TryAcquire(ctx context.Context) (bool, error)

	// Release releases the lock
	Release(ctx context.Context) error

	// CheckLockHeld verifies if we still hold the lock
	CheckLockHeld(ctx context.Context) (bool, error)

	// GetChatID returns the chat ID this lock is for
	GetChatID() int64
}
