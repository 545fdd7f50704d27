package ports

import (
	"context"
	"time"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

type RegisterInput struct {
	Name     string `validate:"required,min=3"`
	Email    string `validate:"required,mailbox"`
	Username string `validate:"required,username"`
	Password string `validate:"required,min=6"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
	Identity  *domain.Identity
}

type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	Authenticate(ctx context.Context, login, password string) (*domain.Identity, error)
	Login(ctx context.Context, login, password string) (*Session, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	Get(ctx context.Context, id string) (*domain.Identity, error)
	GetBalance(ctx context.Context, id string) (domain.Amount, error)
	AdjustBalance(ctx context.Context, id string, delta domain.Amount) (domain.Amount, error)
}
