package ports

import (
	"context"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

// IdentityRepository persists identities and their balances.
type IdentityRepository interface {
	// Create stores a new identity. Username and email are unique ignoring case.
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// AdjustBalance adds delta to the balance and returns the new value. It fails
	// with domain.ErrInsufficientFunds, leaving the balance untouched, when the
	// result would be negative.
	AdjustBalance(ctx context.Context, id string, delta domain.Amount) (domain.Amount, error)
}
