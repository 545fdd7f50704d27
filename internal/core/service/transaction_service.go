package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

// DefaultDepositLimit caps a single deposit.
var DefaultDepositLimit = domain.MustAmount("100000.00")

// TransactionService orchestrates deposits and transfers on top of the
// account store, contact book and ledger.
type TransactionService struct {
	accounts     ports.AccountService
	contacts     ports.ContactService
	ledger       ports.LedgerService
	locker       ports.IdentityLocker
	notifier     ports.EventNotifier
	depositLimit domain.Amount
}

// NewTransactionService wires the service. notifier may be nil; a
// non-positive depositLimit selects DefaultDepositLimit.
func NewTransactionService(
	accounts ports.AccountService,
	contacts ports.ContactService,
	ledger ports.LedgerService,
	locker ports.IdentityLocker,
	notifier ports.EventNotifier,
	depositLimit domain.Amount,
) *TransactionService {
	if depositLimit <= 0 {
		depositLimit = DefaultDepositLimit
	}
	return &TransactionService{
		accounts:     accounts,
		contacts:     contacts,
		ledger:       ledger,
		locker:       locker,
		notifier:     notifier,
		depositLimit: depositLimit,
	}
}

// Deposit credits owner. Checks run in order: amount, limit, payment method.
func (s *TransactionService) Deposit(ctx context.Context, owner string, in ports.DepositInput) (*domain.Transaction, error) {
	rounded, err := positiveAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	if rounded.GreaterThan(s.depositLimit.Decimal()) {
		return nil, domain.ErrAmountExceedsLimit
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		return nil, domain.ErrMissingPaymentMethod
	}
	amount, err := domain.AmountFromDecimal(rounded)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = domain.DefaultDepositDescription
	}

	unlock, err := s.lock(ctx, owner)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx, balance, err := s.ledger.Post(ctx, domain.Entry{
		Owner:         owner,
		Kind:          domain.KindDeposit,
		Amount:        amount,
		Description:   description,
		PaymentMethod: method,
	}, amount)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}

	s.notify(*tx, balance)
	return tx, nil
}

// Transfer debits sender in favour of one of its contacts. Checks run in
// order: recipient, amount, funds, concept.
func (s *TransactionService) Transfer(ctx context.Context, sender string, in ports.TransferInput) (*domain.Transaction, error) {
	contactID := strings.TrimSpace(in.ContactID)
	if contactID == "" {
		return nil, domain.ErrNoRecipientSelected
	}
	contact, err := s.contacts.Get(ctx, sender, contactID)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	rounded, err := positiveAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, sender)
	if err != nil {
		return nil, err
	}
	defer unlock()

	balance, err := s.accounts.GetBalance(ctx, sender)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	if rounded.GreaterThan(balance.Decimal()) {
		return nil, domain.ErrInsufficientFunds
	}

	concept := strings.TrimSpace(in.Concept)
	if concept == "" {
		return nil, domain.ErrMissingConcept
	}

	amount, err := domain.AmountFromDecimal(rounded)
	if err != nil {
		return nil, err
	}

	tx, newBalance, err := s.ledger.Post(ctx, domain.Entry{
		Owner:       sender,
		Kind:        domain.KindTransfer,
		Amount:      amount,
		Description: concept,
		Recipient:   &domain.Recipient{Name: contact.Name, Email: contact.Email},
	}, -amount)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}

	s.notify(*tx, newBalance)
	return tx, nil
}

// positiveAmount rounds d to cents and rejects anything that is not above zero.
func positiveAmount(d decimal.Decimal) (decimal.Decimal, error) {
	rounded := d.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	return rounded, nil
}

func (s *TransactionService) lock(ctx context.Context, identityID string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	unlock, err := s.locker.Lock(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("lock identity: %w", err)
	}
	return unlock, nil
}

func (s *TransactionService) notify(tx domain.Transaction, balance domain.Amount) {
	if s.notifier == nil {
		return
	}
	s.notifier.Enqueue(domain.NewTransactionEvent(tx, balance))
}
