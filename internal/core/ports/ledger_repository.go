package ports

import (
	"context"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

// LedgerRepository is the append-only transaction store.
type LedgerRepository interface {
	// Append stores tx and assigns its sequence number.
	Append(ctx context.Context, tx *domain.Transaction) error

	// Commit applies delta to the owner's balance and appends tx as a single
	// atomic unit, returning the new balance. Nothing is written when the
	// balance would go negative (domain.ErrInsufficientFunds).
	Commit(ctx context.Context, tx *domain.Transaction, delta domain.Amount) (domain.Amount, error)

	// List returns every transaction of owner in insertion order.
	List(ctx context.Context, owner string) ([]domain.Transaction, error)
}
