package domain

import "time"

// TransactionKind distinguishes money entering the wallet from money leaving it.
type TransactionKind string

const (
	KindDeposit  TransactionKind = "deposit"
	KindTransfer TransactionKind = "transfer"
)

func (k TransactionKind) Valid() bool {
	return k == KindDeposit || k == KindTransfer
}

// TransactionStatus is always completed today; pending or failed states would
// be added here.
type TransactionStatus string

const StatusCompleted TransactionStatus = "completed"

// DefaultDepositDescription is used when a deposit carries no description.
const DefaultDepositDescription = "Deposit"

// Documented payment method tags. Any non-empty tag is accepted.
const (
	PaymentMethodCard     = "tarjeta"
	PaymentMethodTransfer = "transferencia"
	PaymentMethodCash     = "efectivo"
)

// Recipient is the contact snapshot stored on a transfer at send time.
type Recipient struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID            string            `json:"id" bson:"_id"`
	Owner         string            `json:"-" bson:"owner"`
	Seq           int64             `json:"-" bson:"seq"`
	Kind          TransactionKind   `json:"type" bson:"kind"`
	Amount        Amount            `json:"amount" bson:"amount" swaggertype:"number"`
	Timestamp     time.Time         `json:"date" bson:"timestamp"`
	Description   string            `json:"description" bson:"description"`
	Status        TransactionStatus `json:"status" bson:"status"`
	PaymentMethod string            `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	Recipient     *Recipient        `json:"recipient,omitempty" bson:"recipient,omitempty"`
}

// Clone returns a deep copy so callers never share the recipient pointer
// with the store.
func (t Transaction) Clone() Transaction {
	if t.Recipient != nil {
		r := *t.Recipient
		t.Recipient = &r
	}
	return t
}

// Entry is the caller-supplied part of a transaction before the ledger
// stamps id, timestamp, status and sequence on it.
type Entry struct {
	Owner         string
	Kind          TransactionKind
	Amount        Amount
	Description   string
	PaymentMethod string
	Recipient     *Recipient
}
