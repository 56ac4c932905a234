package dto

import (
	"time"

	"github.com/iho/vaultbank/internal/domain"
)

// AccountResponse represents an account in API responses. Balance is in
// minor units; BalanceDisplay is the formatted major-unit string.
type AccountResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Balance        int64     `json:"balance"`
	BalanceDisplay string    `json:"balance_display"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Username:       a.Username,
		Balance:        a.Balance,
		BalanceDisplay: domain.FormatAmount(a.Balance),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// TokenResponse carries an issued access token.
type TokenResponse struct {
	Token   string           `json:"token"`
	Account *AccountResponse `json:"account"`
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	ReceiverID    string    `json:"receiver_id"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            t.ID,
		SenderID:      t.SenderID,
		ReceiverID:    t.ReceiverID,
		Amount:        t.Amount,
		AmountDisplay: domain.FormatAmount(t.Amount),
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ErrorResponse represents an error in API responses. RiskScore and
// RiskLevel are set only when a transfer was blocked by verification.
type ErrorResponse struct {
	Error     string   `json:"error"`
	Message   string   `json:"message,omitempty"`
	RiskScore *float64 `json:"risk_score,omitempty"`
	RiskLevel string   `json:"risk_level,omitempty"`
}
