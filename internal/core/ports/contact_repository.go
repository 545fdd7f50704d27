package ports

import (
	"context"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

type ContactRepository interface {
	// List returns the owner's contacts in insertion order.
	List(ctx context.Context, owner string) ([]domain.Contact, error)
	// Add fails with domain.ErrDuplicateContact when the owner already has the email.
	Add(ctx context.Context, contact *domain.Contact) error
	Get(ctx context.Context, owner, id string) (*domain.Contact, error)
}
