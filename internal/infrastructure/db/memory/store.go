// Package memory is the process-local store used when no database is
// configured and in tests. All repositories returned by a Store share one
// lock, so a ledger commit updates the balance and the history together.
package memory

import (
	"context"
	"sync"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

type Store struct {
	mu sync.RWMutex

	identities map[string]*domain.Identity
	byUsername map[string]string
	byEmail    map[string]string

	contacts     map[string][]domain.Contact
	transactions map[string][]domain.Transaction
	seq          int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		identities:   make(map[string]*domain.Identity),
		byUsername:   make(map[string]string),
		byEmail:      make(map[string]string),
		contacts:     make(map[string][]domain.Contact),
		transactions: make(map[string][]domain.Transaction),
	}
}

func (s *Store) Identities() *IdentityRepository { return &IdentityRepository{s: s} }
func (s *Store) Contacts() *ContactRepository    { return &ContactRepository{s: s} }
func (s *Store) Ledger() *LedgerRepository        { return &LedgerRepository{s: s} }

// ---------------------------------------------------------------------------
// Identities
// ---------------------------------------------------------------------------

type IdentityRepository struct{ s *Store }

func (r *IdentityRepository) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	userKey := domain.LookupKey(identity.Username)
	emailKey := domain.LookupKey(identity.Email)
	if _, exists := s.byUsername[userKey]; exists {
		return nil, domain.ErrDuplicateUsername
	}
	if _, exists := s.byEmail[emailKey]; exists {
		return nil, domain.ErrDuplicateEmail
	}

	stored := *identity
	s.identities[stored.ID] = &stored
	s.byUsername[userKey] = stored.ID
	s.byEmail[emailKey] = stored.ID

	out := stored
	return &out, nil
}

func (r *IdentityRepository) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.identityLocked(id)
}

func (r *IdentityRepository) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.identityLocked(r.s.byUsername[domain.LookupKey(username)])
}

func (r *IdentityRepository) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.identityLocked(r.s.byEmail[domain.LookupKey(email)])
}

func (r *IdentityRepository) AdjustBalance(_ context.Context, id string, delta domain.Amount) (domain.Amount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.adjustLocked(id, delta)
}

// identityLocked returns a copy of the identity. Caller holds mu.
func (s *Store) identityLocked(id string) (*domain.Identity, error) {
	identity, ok := s.identities[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	out := *identity
	return &out, nil
}

func (s *Store) adjustLocked(id string, delta domain.Amount) (domain.Amount, error) {
	identity, ok := s.identities[id]
	if !ok {
		return 0, domain.ErrIdentityNotFound
	}
	next := identity.Balance + delta
	if next < 0 {
		return identity.Balance, domain.ErrInsufficientFunds
	}
	identity.Balance = next
	return next, nil
}

// ---------------------------------------------------------------------------
// Contacts
// ---------------------------------------------------------------------------

type ContactRepository struct{ s *Store }

func (r *ContactRepository) List(_ context.Context, owner string) ([]domain.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.contacts[owner]
	out := make([]domain.Contact, len(src))
	copy(out, src)
	return out, nil
}

func (r *ContactRepository) Add(_ context.Context, contact *domain.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.contacts[contact.Owner] {
		if c.Email == contact.Email {
			return domain.ErrDuplicateContact
		}
	}
	r.s.contacts[contact.Owner] = append(r.s.contacts[contact.Owner], *contact)
	return nil
}

func (r *ContactRepository) Get(_ context.Context, owner, id string) (*domain.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.contacts[owner] {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, domain.ErrContactNotFound
}

// ---------------------------------------------------------------------------
// Ledger
// ---------------------------------------------------------------------------

type LedgerRepository struct{ s *Store }

func (r *LedgerRepository) Append(_ context.Context, tx *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.identities[tx.Owner]; !ok {
		return domain.ErrIdentityNotFound
	}
	r.s.appendLocked(tx)
	return nil
}

func (r *LedgerRepository) Commit(_ context.Context, tx *domain.Transaction, delta domain.Amount) (domain.Amount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	balance, err := r.s.adjustLocked(tx.Owner, delta)
	if err != nil {
		return 0, err
	}
	r.s.appendLocked(tx)
	return balance, nil
}

func (r *LedgerRepository) List(_ context.Context, owner string) ([]domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.transactions[owner]
	out := make([]domain.Transaction, len(src))
	for i, tx := range src {
		out[i] = tx.Clone()
	}
	return out, nil
}

func (s *Store) appendLocked(tx *domain.Transaction) {
	s.seq++
	tx.Seq = s.seq
	s.transactions[tx.Owner] = append(s.transactions[tx.Owner], tx.Clone())
}
