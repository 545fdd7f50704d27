package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

// DepositInput is what the transport layer collects for a deposit.
type DepositInput struct {
	Amount        decimal.Decimal
	PaymentMethod string
	Description   string // optional
}

// TransferInput identifies the recipient by contact id in the sender's book.
type TransferInput struct {
	ContactID string
	Amount    decimal.Decimal
	Concept   string
}

type TransactionService interface {
	Deposit(ctx context.Context, owner string, in DepositInput) (*domain.Transaction, error)
	Transfer(ctx context.Context, sender string, in TransferInput) (*domain.Transaction, error)
}
