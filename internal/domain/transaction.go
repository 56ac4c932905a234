package domain

import "time"

// TransactionStatus is the terminal status of a ledger transaction.
type TransactionStatus string

const (
	// TransactionCompleted is the only status the system ever persists.
	// Rejected transfers never produce a record.
	TransactionCompleted TransactionStatus = "completed"

	// TransactionFailed exists on the wire for API consumers; no code
	// path stores it.
	TransactionFailed TransactionStatus = "failed"
)

// Transaction represents a completed money movement between two accounts.
// It is immutable once appended to the ledger.
type Transaction struct {
	ID         string
	SenderID   string
	ReceiverID string
	Amount     int64
	Status     TransactionStatus
	CreatedAt  time.Time
}

// Validate checks the transaction fields before it is persisted.
func (t *Transaction) Validate() error {
	if t.SenderID == t.ReceiverID {
		return ErrSelfTransfer
	}

	if t.Amount <= 0 {
		return ErrInvalidAmount
	}

	return nil
}

// Involves reports whether accountID participates in the transaction.
func (t *Transaction) Involves(accountID string) bool {
	return t.SenderID == accountID || t.ReceiverID == accountID
}
