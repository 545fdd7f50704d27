package ports

import (
	"context"
	"time"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

// IdentityLocker serializes money movements of a single identity.
type IdentityLocker interface {
	// Lock blocks until the lock is held or ctx is done. The returned func
	// releases it.
	Lock(ctx context.Context, identityID string) (unlock func(), err error)
}

// SessionStore keeps revoked token ids until the token would expire anyway.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// EventPublisher delivers a transaction event to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.TransactionEvent) error
}

// EventNotifier hands events to an asynchronous publisher. Enqueue never
// blocks and reports false when the event was dropped.
type EventNotifier interface {
	Enqueue(evt domain.TransactionEvent) bool
}
