package domain

import "time"

// TransactionEvent is published after a deposit or transfer commits.
type TransactionEvent struct {
	TransactionID string          `json:"transaction_id"`
	Owner         string          `json:"owner"`
	Kind          TransactionKind `json:"type"`
	Amount        Amount          `json:"amount"`
	Balance       Amount          `json:"balance"`
	Timestamp     time.Time       `json:"date"`
}

// NewTransactionEvent builds the event for a committed transaction.
func NewTransactionEvent(tx Transaction, balance Amount) TransactionEvent {
	return TransactionEvent{
		TransactionID: tx.ID,
		Owner:         tx.Owner,
		Kind:          tx.Kind,
		Amount:        tx.Amount,
		Balance:       balance,
		Timestamp:     tx.Timestamp,
	}
}
