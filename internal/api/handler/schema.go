package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alkewallet/wallet-service/internal/core/domain"
)

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginRequest accepts a username or an email in Login.
type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string           `json:"token,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	Identity  *domain.Identity `json:"identity,omitempty"`
}

// --- Wallet ---

// Amounts are decoded as decimals; both 12.5 and "12.5" are accepted.
type depositRequest struct {
	Amount        decimal.Decimal `json:"amount" swaggertype:"number"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
}

type transferRequest struct {
	ContactID string          `json:"contact_id"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"number"`
	Concept   string          `json:"concept"`
}

type listTransactionsQuery struct {
	Type     string `query:"type" validate:"omitempty,oneof=deposit transfer"`
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

type recentQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=50"`
}

type summaryResponse struct {
	Balance            domain.Amount `json:"balance" swaggertype:"number"`
	TotalDeposits      domain.Amount `json:"total_deposits" swaggertype:"number"`
	TotalTransfersSent domain.Amount `json:"total_transfers_sent" swaggertype:"number"`
}

type transactionsResponse struct {
	Items []domain.Transaction `json:"items"`
}

// --- Contacts ---

type addContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type contactsResponse struct {
	Items []domain.Contact `json:"items"`
}
