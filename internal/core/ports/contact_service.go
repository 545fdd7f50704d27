package ports

import (
	"context"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

type AddContactInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,mailbox"`
	Phone string
}

type ContactService interface {
	List(ctx context.Context, owner string) ([]domain.Contact, error)
	Add(ctx context.Context, owner string, in AddContactInput) (*domain.Contact, error)
	Get(ctx context.Context, owner, id string) (*domain.Contact, error)
}
