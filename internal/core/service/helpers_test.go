package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
	"github.com/alkewallet/wallet-service/internal/infrastructure/db/memory"
)

// testEnv wires every service against one in-memory store.
type testEnv struct {
	store        *memory.Store
	sessions     *memory.SessionStore
	accounts     *AccountService
	contacts     *ContactService
	ledger       *LedgerService
	transactions *TransactionService
	events       *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	sessions := memory.NewSessionStore()
	env := &testEnv{
		store:    store,
		sessions: sessions,
		accounts: NewAccountService(store.Identities(), sessions, "secret", time.Hour),
		contacts: NewContactService(store.Contacts()),
		ledger:   NewLedgerService(store.Ledger()),
		events:   &recordingNotifier{},
	}
	env.transactions = NewTransactionService(env.accounts, env.contacts, env.ledger, memory.NewLocker(), env.events, 0)
	return env
}

func (e *testEnv) register(t *testing.T, username string) *domain.Identity {
	t.Helper()
	identity, err := e.accounts.Register(context.Background(), ports.RegisterInput{
		Name:     "Test " + username,
		Email:    username + "@example.com",
		Username: username,
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return identity
}

func (e *testEnv) balance(t *testing.T, id string) domain.Amount {
	t.Helper()
	bal, err := e.accounts.GetBalance(context.Background(), id)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return bal
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.TransactionEvent
}

func (n *recordingNotifier) Enqueue(evt domain.TransactionEvent) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return true
}

func (n *recordingNotifier) all() []domain.TransactionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.TransactionEvent(nil), n.events...)
}

// steppingClock returns t0, t0+step, t0+2*step, ...
func steppingClock(t0 time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := t0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur := next
		next = next.Add(step)
		return cur
	}
}
