package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func findByID(txs []domain.Transaction, id string) *domain.Transaction {
	for i := range txs {
		if txs[i].ID == id {
			return &txs[i]
		}
	}
	return nil
}

func addContact(t *testing.T, env *testEnv, owner string) *domain.Contact {
	t.Helper()
	c, err := env.contacts.Add(context.Background(), owner, ports.AddContactInput{Name: "Juan Pérez", Email: "juan.perez@example.com"})
	if err != nil {
		t.Fatalf("add contact: %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// End-to-end wallet flow
// ---------------------------------------------------------------------------

func TestTransactionService_WalletScenario(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.now = steppingClock(t0, time.Second)
	ctx := context.Background()

	identity, err := env.accounts.Register(ctx, ports.RegisterInput{Name: "Alice", Email: "a@x.com", Username: "alice", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	depositReceipt, err := env.transactions.Deposit(ctx, identity.ID, ports.DepositInput{Amount: dec("500"), PaymentMethod: domain.PaymentMethodCard})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if got := env.balance(t, identity.ID); got.String() != "500.00" {
		t.Fatalf("expected 500.00, got %s", got)
	}

	if _, err := env.transactions.Deposit(ctx, identity.ID, ports.DepositInput{Amount: dec("150000"), PaymentMethod: domain.PaymentMethodCard}); !errors.Is(err, domain.ErrAmountExceedsLimit) {
		t.Fatalf("expected ErrAmountExceedsLimit, got %v", err)
	}
	if got := env.balance(t, identity.ID); got.String() != "500.00" {
		t.Fatalf("expected 500.00 after rejected deposit, got %s", got)
	}

	contact, err := env.contacts.Add(ctx, identity.ID, ports.AddContactInput{Name: "Bob", Email: "b@x.com"})
	if err != nil {
		t.Fatalf("add contact: %v", err)
	}

	receipt, err := env.transactions.Transfer(ctx, identity.ID, ports.TransferInput{ContactID: contact.ID, Amount: dec("100"), Concept: "rent"})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := env.balance(t, identity.ID); got.String() != "400.00" {
		t.Fatalf("expected 400.00, got %s", got)
	}
	if receipt.Recipient == nil || receipt.Recipient.Name != "Bob" || receipt.Recipient.Email != "b@x.com" {
		t.Fatalf("unexpected recipient snapshot: %+v", receipt.Recipient)
	}

	if _, err := env.transactions.Transfer(ctx, identity.ID, ports.TransferInput{ContactID: contact.ID, Amount: dec("1000"), Concept: "x"}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := env.balance(t, identity.ID); got.String() != "400.00" {
		t.Fatalf("expected 400.00 after failed transfer, got %s", got)
	}

	history, _ := env.ledger.History(ctx, identity.ID)
	if len(history) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(history))
	}
	if history[0].Kind != domain.KindTransfer || history[0].Amount.String() != "100.00" || history[0].Description != "rent" {
		t.Fatalf("unexpected newest entry: %+v", history[0])
	}
	if history[1].Kind != domain.KindDeposit || history[1].Amount.String() != "500.00" || history[1].Description != domain.DefaultDepositDescription {
		t.Fatalf("unexpected oldest entry: %+v", history[1])
	}
	for _, want := range []*domain.Transaction{depositReceipt, receipt} {
		got := findByID(history, want.ID)
		if got == nil {
			t.Fatalf("receipt %s missing from history", want.ID)
		}
		if !reflect.DeepEqual(*got, *want) {
			t.Fatalf("history entry differs from receipt:\n got  %+v\n want %+v", *got, *want)
		}
	}

	events := env.events.all()
	if len(events) != 2 || events[1].Balance.String() != "400.00" || events[1].Owner != identity.ID {
		t.Fatalf("unexpected events: %+v", events)
	}
}

// ---------------------------------------------------------------------------
// Deposit
// ---------------------------------------------------------------------------

func TestTransactionService_Deposit_Validation(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "alice")
	ctx := context.Background()

	cases := []struct {
		name string
		in   ports.DepositInput
		want error
	}{
		{"zero", ports.DepositInput{Amount: dec("0"), PaymentMethod: "efectivo"}, domain.ErrInvalidAmount},
		{"negative", ports.DepositInput{Amount: dec("-5"), PaymentMethod: "efectivo"}, domain.ErrInvalidAmount},
		{"rounds to zero", ports.DepositInput{Amount: dec("0.004"), PaymentMethod: "efectivo"}, domain.ErrInvalidAmount},
		{"over limit", ports.DepositInput{Amount: dec("100000.01"), PaymentMethod: "efectivo"}, domain.ErrAmountExceedsLimit},
		{"amount before method", ports.DepositInput{Amount: dec("0")}, domain.ErrInvalidAmount},
		{"missing method", ports.DepositInput{Amount: dec("10")}, domain.ErrMissingPaymentMethod},
		{"blank method", ports.DepositInput{Amount: dec("10"), PaymentMethod: "  "}, domain.ErrMissingPaymentMethod},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.transactions.Deposit(ctx, owner.ID, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if got := env.balance(t, owner.ID); got != 0 {
		t.Fatalf("rejected deposits changed balance to %s", got)
	}
	if history, _ := env.ledger.History(ctx, owner.ID); len(history) != 0 {
		t.Fatalf("rejected deposits left %d ledger entries", len(history))
	}
}

func TestTransactionService_Deposit_AtLimitAndRounding(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "alice")
	ctx := context.Background()

	tx, err := env.transactions.Deposit(ctx, owner.ID, ports.DepositInput{Amount: dec("100000"), PaymentMethod: "transferencia", Description: "salary"})
	if err != nil {
		t.Fatalf("deposit at limit: %v", err)
	}
	if tx.Description != "salary" || tx.PaymentMethod != "transferencia" {
		t.Fatalf("unexpected receipt: %+v", tx)
	}

	tx, err = env.transactions.Deposit(ctx, owner.ID, ports.DepositInput{Amount: dec("0.005"), PaymentMethod: "efectivo"})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if tx.Amount != 1 {
		t.Fatalf("expected 0.005 to round to one cent, got %s", tx.Amount)
	}
	if got := env.balance(t, owner.ID); got.String() != "100000.01" {
		t.Fatalf("unexpected balance %s", got)
	}
}

func TestTransactionService_Deposit_CustomLimit(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "alice")
	svc := NewTransactionService(env.accounts, env.contacts, env.ledger, nil, nil, domain.MustAmount("50"))

	if _, err := svc.Deposit(context.Background(), owner.ID, ports.DepositInput{Amount: dec("50.01"), PaymentMethod: "efectivo"}); !errors.Is(err, domain.ErrAmountExceedsLimit) {
		t.Fatalf("expected ErrAmountExceedsLimit, got %v", err)
	}
}

func TestTransactionService_Deposit_UnknownIdentity(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.transactions.Deposit(context.Background(), "ghost", ports.DepositInput{Amount: dec("10"), PaymentMethod: "efectivo"}); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Transfer
// ---------------------------------------------------------------------------

func TestTransactionService_Transfer_ValidationOrder(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "alice")
	contact := addContact(t, env, owner.ID)
	ctx := context.Background()
	_, _ = env.transactions.Deposit(ctx, owner.ID, ports.DepositInput{Amount: dec("50"), PaymentMethod: "efectivo"})

	cases := []struct {
		name string
		in   ports.TransferInput
		want error
	}{
		{"no recipient", ports.TransferInput{Amount: dec("-1")}, domain.ErrNoRecipientSelected},
		{"unknown recipient", ports.TransferInput{ContactID: "nope", Amount: dec("10"), Concept: "x"}, domain.ErrContactNotFound},
		{"zero amount", ports.TransferInput{ContactID: contact.ID, Amount: dec("0")}, domain.ErrInvalidAmount},
		{"over balance", ports.TransferInput{ContactID: contact.ID, Amount: dec("50.01")}, domain.ErrInsufficientFunds},
		{"missing concept", ports.TransferInput{ContactID: contact.ID, Amount: dec("10"), Concept: " "}, domain.ErrMissingConcept},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.transactions.Transfer(ctx, owner.ID, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if got := env.balance(t, owner.ID); got.String() != "50.00" {
		t.Fatalf("failed transfers changed balance to %s", got)
	}
}

func TestTransactionService_Transfer_EntireBalance(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "alice")
	contact := addContact(t, env, owner.ID)
	ctx := context.Background()
	_, _ = env.transactions.Deposit(ctx, owner.ID, ports.DepositInput{Amount: dec("0.30"), PaymentMethod: "efectivo"})

	if _, err := env.transactions.Transfer(ctx, owner.ID, ports.TransferInput{ContactID: contact.ID, Amount: dec("0.1"), Concept: "a"}); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if _, err := env.transactions.Transfer(ctx, owner.ID, ports.TransferInput{ContactID: contact.ID, Amount: dec("0.2"), Concept: "b"}); err != nil {
		t.Fatalf("transfer of exact remaining balance: %v", err)
	}
	if got := env.balance(t, owner.ID); got != 0 {
		t.Fatalf("expected exact zero, got %s", got)
	}
}

func TestTransactionService_Transfer_ContactOfAnotherOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bobby")
	bobsContact := addContact(t, env, bob.ID)
	_, _ = env.transactions.Deposit(context.Background(), alice.ID, ports.DepositInput{Amount: dec("10"), PaymentMethod: "efectivo"})

	_, err := env.transactions.Transfer(context.Background(), alice.ID, ports.TransferInput{ContactID: bobsContact.ID, Amount: dec("1"), Concept: "x"})
	if !errors.Is(err, domain.ErrContactNotFound) {
		t.Fatalf("expected ErrContactNotFound, got %v", err)
	}
}

func TestTransactionService_Transfer_SnapshotSurvivesContactChanges(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.now = steppingClock(t0, time.Second)
	owner := env.register(t, "alice")
	contact := addContact(t, env, owner.ID)
	ctx := context.Background()
	_, _ = env.transactions.Deposit(ctx, owner.ID, ports.DepositInput{Amount: dec("10"), PaymentMethod: "efectivo"})

	tx, err := env.transactions.Transfer(ctx, owner.ID, ports.TransferInput{ContactID: contact.ID, Amount: dec("1"), Concept: "x"})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	tx.Recipient.Name = "mutated by caller"

	history, _ := env.ledger.History(ctx, owner.ID)
	stored := findByID(history, tx.ID)
	if stored == nil || stored.Recipient == nil {
		t.Fatalf("transfer %s missing from history: %+v", tx.ID, history)
	}
	if stored.Recipient.Name != "Juan Pérez" {
		t.Fatalf("stored snapshot was mutated: %+v", stored.Recipient)
	}
}

// ---------------------------------------------------------------------------
// Collaborator failures
// ---------------------------------------------------------------------------

type stubLocker struct {
	lockFn func(ctx context.Context, id string) (func(), error)
}

func (s *stubLocker) Lock(ctx context.Context, id string) (func(), error) {
	return s.lockFn(ctx, id)
}

func TestTransactionService_LockFailureHasNoEffect(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "alice")
	errBusy := errors.New("lock busy")
	locker := &stubLocker{lockFn: func(context.Context, string) (func(), error) { return nil, errBusy }}
	svc := NewTransactionService(env.accounts, env.contacts, env.ledger, locker, env.events, 0)

	_, err := svc.Deposit(context.Background(), owner.ID, ports.DepositInput{Amount: dec("10"), PaymentMethod: "efectivo"})
	if !errors.Is(err, errBusy) {
		t.Fatalf("expected lock error, got %v", err)
	}
	if got := env.balance(t, owner.ID); got != 0 {
		t.Fatalf("balance changed despite lock failure: %s", got)
	}
	if len(env.events.all()) != 0 {
		t.Fatalf("no event expected for a failed deposit")
	}
}

func TestTransactionService_ConcurrentTransfersNeverOverdraw(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "alice")
	contact := addContact(t, env, owner.ID)
	ctx := context.Background()
	_, _ = env.transactions.Deposit(ctx, owner.ID, ports.DepositInput{Amount: dec("10"), PaymentMethod: "efectivo"})

	results := make(chan error, 40)
	for i := 0; i < 40; i++ {
		go func() {
			_, err := env.transactions.Transfer(ctx, owner.ID, ports.TransferInput{ContactID: contact.ID, Amount: dec("0.5"), Concept: "split"})
			results <- err
		}()
	}
	ok := 0
	for i := 0; i < 40; i++ {
		if err := <-results; err == nil {
			ok++
		} else if !errors.Is(err, domain.ErrInsufficientFunds) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 20 {
		t.Fatalf("expected 20 successful transfers, got %d", ok)
	}
	if got := env.balance(t, owner.ID); got != 0 {
		t.Fatalf("expected zero balance, got %s", got)
	}
}
