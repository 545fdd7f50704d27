package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

// AccountService implements registration, login and balance access.
type AccountService struct {
	repo      ports.IdentityRepository
	sessions  ports.SessionStore
	validate  *validator.Validate
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAccountService(repo ports.IdentityRepository, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{
		repo:      repo,
		sessions:  sessions,
		validate:  newValidator(),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, domain.NewInputError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	identity := &domain.Identity{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}

	created, err := s.repo.Create(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return created, nil
}

// Authenticate matches login against usernames first, then emails. Every
// failure mode collapses into domain.ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, login, password string) (*domain.Identity, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindByUsername(ctx, login)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		identity, err = s.repo.FindByEmail(ctx, login)
	}
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return identity, nil
}

func (s *AccountService) Login(ctx context.Context, login, password string) (*ports.Session, error) {
	identity, err := s.Authenticate(ctx, login, password)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.NewString()
	expiresAt := s.now().Add(s.tokenTTL)
	token, err := s.generateToken(identity, tokenID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	return &ports.Session{
		Token:     token,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
		Identity:  identity,
	}, nil
}

// Logout revokes tokenID for the remainder of its lifetime.
func (s *AccountService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.sessions == nil || tokenID == "" {
		return nil
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.sessions.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Identity, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AccountService) GetBalance(ctx context.Context, id string) (domain.Amount, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return identity.Balance, nil
}

func (s *AccountService) AdjustBalance(ctx context.Context, id string, delta domain.Amount) (domain.Amount, error) {
	return s.repo.AdjustBalance(ctx, id, delta)
}

func (s *AccountService) generateToken(identity *domain.Identity, tokenID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":      identity.ID,
		"username": identity.Username,
		"jti":      tokenID,
		"iat":      s.now().Unix(),
		"exp":      expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
