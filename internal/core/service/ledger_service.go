package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

// DefaultPageSize is the history page size when the caller does not pick one.
const DefaultPageSize = 10

// LedgerService stamps and records transactions and answers history queries.
type LedgerService struct {
	repo  ports.LedgerRepository
	now   func() time.Time
	newID func() string
}

func NewLedgerService(repo ports.LedgerRepository) *LedgerService {
	return &LedgerService{repo: repo, now: time.Now, newID: newTransactionID}
}

// newTransactionID returns a time-ordered UUIDv7.
func newTransactionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *LedgerService) Append(ctx context.Context, entry domain.Entry) (*domain.Transaction, error) {
	tx, err := s.stamp(entry)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("append transaction: %w", err)
	}
	out := tx.Clone()
	return &out, nil
}

func (s *LedgerService) Post(ctx context.Context, entry domain.Entry, delta domain.Amount) (*domain.Transaction, domain.Amount, error) {
	tx, err := s.stamp(entry)
	if err != nil {
		return nil, 0, err
	}
	balance, err := s.repo.Commit(ctx, tx, delta)
	if err != nil {
		return nil, 0, fmt.Errorf("post transaction: %w", err)
	}
	out := tx.Clone()
	return &out, balance, nil
}

func (s *LedgerService) stamp(entry domain.Entry) (*domain.Transaction, error) {
	if entry.Owner == "" {
		return nil, domain.NewInputError("owner", "is required")
	}
	if !entry.Kind.Valid() {
		return nil, domain.NewInputError("type", "must be deposit or transfer")
	}
	if entry.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	tx := &domain.Transaction{
		ID:            s.newID(),
		Owner:         entry.Owner,
		Kind:          entry.Kind,
		Amount:        entry.Amount,
		Timestamp:     s.now().UTC().Truncate(time.Millisecond),
		Description:   entry.Description,
		Status:        domain.StatusCompleted,
		PaymentMethod: entry.PaymentMethod,
	}
	if entry.Recipient != nil {
		r := *entry.Recipient
		tx.Recipient = &r
	}
	return tx, nil
}

// History returns owner's transactions newest first. Equal timestamps keep
// insertion order.
func (s *LedgerService) History(ctx context.Context, owner string) ([]domain.Transaction, error) {
	txs, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].Seq < txs[j].Seq
		}
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
	return txs, nil
}

func (s *LedgerService) Filter(ctx context.Context, owner string, filter ports.TransactionFilter) ([]domain.Transaction, error) {
	txs, err := s.History(ctx, owner)
	if err != nil {
		return nil, err
	}

	var end time.Time
	if !filter.DateTo.IsZero() {
		end = endOfDay(filter.DateTo)
	}

	out := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if filter.Kind != "" && tx.Kind != filter.Kind {
			continue
		}
		if !filter.DateFrom.IsZero() && tx.Timestamp.Before(filter.DateFrom) {
			continue
		}
		if !end.IsZero() && tx.Timestamp.After(end) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Paginate slices items into 1-indexed pages. Page numbers outside
// [1, TotalPages] yield an empty page; clamping is left to the caller.
func (s *LedgerService) Paginate(items []domain.Transaction, pageSize, page int) ports.Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	n := len(items)
	p := ports.Page{
		Items:      []domain.Transaction{},
		Page:       page,
		PageSize:   pageSize,
		TotalItems: n,
		TotalPages: (n + pageSize - 1) / pageSize,
	}
	if page < 1 {
		return p
	}
	start := (page - 1) * pageSize
	if start >= n {
		return p
	}
	end := min(start+pageSize, n)
	p.Items = items[start:end]
	return p
}

// Summarize totals the full, unfiltered history.
func (s *LedgerService) Summarize(ctx context.Context, owner string) (ports.Summary, error) {
	txs, err := s.repo.List(ctx, owner)
	if err != nil {
		return ports.Summary{}, fmt.Errorf("summarize: %w", err)
	}
	var sum ports.Summary
	for _, tx := range txs {
		switch tx.Kind {
		case domain.KindDeposit:
			sum.TotalDeposits += tx.Amount
		case domain.KindTransfer:
			sum.TotalTransfersSent += tx.Amount
		}
	}
	return sum, nil
}

func (s *LedgerService) Recent(ctx context.Context, owner string, n int) ([]domain.Transaction, error) {
	txs, err := s.History(ctx, owner)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	return txs[:min(n, len(txs))], nil
}
