package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

// ContactService manages each identity's address book.
type ContactService struct {
	repo     ports.ContactRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewContactService(repo ports.ContactRepository) *ContactService {
	return &ContactService{repo: repo, validate: newValidator(), now: time.Now}
}

func (s *ContactService) List(ctx context.Context, owner string) ([]domain.Contact, error) {
	contacts, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (s *ContactService) Add(ctx context.Context, owner string, in ports.AddContactInput) (*domain.Contact, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}

	contact := &domain.Contact{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Add(ctx, contact); err != nil {
		return nil, fmt.Errorf("add contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) Get(ctx context.Context, owner, id string) (*domain.Contact, error) {
	return s.repo.Get(ctx, owner, id)
}
