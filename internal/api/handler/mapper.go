package handler

import (
	"time"

	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	}
}

func toDepositInput(req depositRequest) ports.DepositInput {
	return ports.DepositInput{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
	}
}

func toTransferInput(req transferRequest) ports.TransferInput {
	return ports.TransferInput{
		ContactID: req.ContactID,
		Amount:    req.Amount,
		Concept:   req.Concept,
	}
}

func toContactInput(req addContactRequest) ports.AddContactInput {
	return ports.AddContactInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
}

// toFilter converts already validated query values. Dates are UTC days.
func toFilter(q listTransactionsQuery) ports.TransactionFilter {
	f := ports.TransactionFilter{Kind: domain.TransactionKind(q.Type)}
	if q.From != "" {
		f.DateFrom, _ = time.ParseInLocation(dateLayout, q.From, time.UTC)
	}
	if q.To != "" {
		f.DateTo, _ = time.ParseInLocation(dateLayout, q.To, time.UTC)
	}
	return f
}

// clampPage keeps page within [1, totalPages]; an empty history has page 1.
func clampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

func pageCount(n, size int) int {
	return (n + size - 1) / size
}
