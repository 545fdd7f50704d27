// Package seed loads the demo fixtures used by local and showcase deployments.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

const openingDescription = "Depósito inicial"

// DemoUser is a fixture identity. Passwords are stored as given; they may be
// shorter than what registration accepts.
type DemoUser struct {
	Username string
	Password string
	Name     string
	Email    string
	Balance  string
}

var DemoUsers = []DemoUser{
	{Username: "admin", Password: "1234", Name: "Administrador", Email: "admin@alkewallet.com", Balance: "1000.00"},
	{Username: "usuario", Password: "pass123", Name: "Usuario Demo", Email: "usuario@demo.com", Balance: "500.00"},
	{Username: "test", Password: "test", Name: "Usuario Test", Email: "test@test.com", Balance: "750.00"},
}

var DemoContacts = []ports.AddContactInput{
	{Name: "María García", Email: "maria.garcia@example.com", Phone: "555-0101"},
	{Name: "Juan Pérez", Email: "juan.perez@example.com", Phone: "555-0102"},
	{Name: "Ana Martínez", Email: "ana.martinez@example.com", Phone: "555-0103"},
}

// Seeder writes fixtures through the regular stores and services so the
// opening balances show up as ledger deposits.
type Seeder struct {
	identities   ports.IdentityRepository
	contacts     ports.ContactService
	transactions ports.TransactionService
	log          zerolog.Logger
	cost         int
	now          func() time.Time
}

func NewSeeder(identities ports.IdentityRepository, contacts ports.ContactService, transactions ports.TransactionService, log zerolog.Logger) *Seeder {
	return &Seeder{
		identities:   identities,
		contacts:     contacts,
		transactions: transactions,
		log:          log,
		cost:         bcrypt.DefaultCost,
		now:          time.Now,
	}
}

// Run is idempotent: users that already exist are left untouched.
func (s *Seeder) Run(ctx context.Context) error {
	created := 0
	for _, u := range DemoUsers {
		ok, err := s.seedUser(ctx, u)
		if err != nil {
			return fmt.Errorf("seed %s: %w", u.Username, err)
		}
		if ok {
			created++
		}
	}
	s.log.Info().Int("created", created).Int("fixtures", len(DemoUsers)).Msg("demo data seeded")
	return nil
}

func (s *Seeder) seedUser(ctx context.Context, u DemoUser) (bool, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	identity, err := s.identities.Create(ctx, &domain.Identity{
		ID:           uuid.NewString(),
		Username:     u.Username,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
		s.log.Debug().Str("username", u.Username).Msg("demo user already present, skipping")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, c := range DemoContacts {
		if _, err := s.contacts.Add(ctx, identity.ID, c); err != nil && !errors.Is(err, domain.ErrDuplicateContact) {
			return false, fmt.Errorf("contact %s: %w", c.Email, err)
		}
	}

	amount, err := decimal.NewFromString(u.Balance)
	if err != nil {
		return false, fmt.Errorf("opening balance: %w", err)
	}
	if amount.IsPositive() {
		_, err = s.transactions.Deposit(ctx, identity.ID, ports.DepositInput{
			Amount:        amount,
			PaymentMethod: domain.PaymentMethodTransfer,
			Description:   openingDescription,
		})
		if err != nil {
			return false, fmt.Errorf("opening deposit: %w", err)
		}
	}

	s.log.Info().Str("username", u.Username).Str("balance", u.Balance).Msg("demo user created")
	return true, nil
}
