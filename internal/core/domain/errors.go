package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrDuplicateUsername    = errors.New("username already registered")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateContact     = errors.New("contact already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrIdentityNotFound     = errors.New("identity not found")
	ErrContactNotFound      = errors.New("contact not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrAmountExceedsLimit   = errors.New("amount exceeds deposit limit")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrMissingPaymentMethod = errors.New("payment method is required")
	ErrMissingConcept       = errors.New("concept is required")
	ErrNoRecipientSelected  = errors.New("no recipient selected")
)

// InputError names the offending field so clients can highlight it.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func NewInputError(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
