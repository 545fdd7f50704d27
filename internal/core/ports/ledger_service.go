package ports

import (
	"context"
	"time"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

// TransactionFilter narrows a history. Zero values mean "no constraint".
type TransactionFilter struct {
	Kind     domain.TransactionKind
	DateFrom time.Time // inclusive
	DateTo   time.Time // inclusive through the end of that day
}

// Page is one slice of a paginated history.
type Page struct {
	Items      []domain.Transaction `json:"items"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalItems int                  `json:"total_items"`
	TotalPages int                  `json:"total_pages"`
}

// Summary aggregates the full, unfiltered history of an identity.
type Summary struct {
	TotalDeposits      domain.Amount `json:"total_deposits" swaggertype:"number"`
	TotalTransfersSent domain.Amount `json:"total_transfers_sent" swaggertype:"number"`
}

type LedgerService interface {
	Append(ctx context.Context, entry domain.Entry) (*domain.Transaction, error)
	// Post appends entry and applies delta to the owner's balance atomically.
	Post(ctx context.Context, entry domain.Entry, delta domain.Amount) (*domain.Transaction, domain.Amount, error)
	History(ctx context.Context, owner string) ([]domain.Transaction, error)
	Filter(ctx context.Context, owner string, filter TransactionFilter) ([]domain.Transaction, error)
	Paginate(items []domain.Transaction, pageSize, page int) Page
	Summarize(ctx context.Context, owner string) (Summary, error)
	Recent(ctx context.Context, owner string, n int) ([]domain.Transaction, error)
}
