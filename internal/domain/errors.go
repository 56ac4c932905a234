package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Transfer errors
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrReceiverNotFound     = errors.New("receiver not found")
	ErrSelfTransfer         = errors.New("cannot transfer to own account")
	ErrVerificationRequired = errors.New("verification required for high-value transfer")
	ErrTransactionBlocked   = errors.New("transaction blocked by risk check")
	ErrTransactionNotFound  = errors.New("transaction not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
)

// TransactionBlockedError carries the risk metadata of a blocked transfer.
// It is the only error in the taxonomy with a diagnostic payload; callers
// surface the score and level to the user.
type TransactionBlockedError struct {
	Score float64
	Level RiskLevel
}

func (e *TransactionBlockedError) Error() string {
	return fmt.Sprintf("transaction blocked: risk score %.1f (%s)", e.Score, e.Level)
}

// Unwrap makes the error match ErrTransactionBlocked under errors.Is.
func (e *TransactionBlockedError) Unwrap() error {
	return ErrTransactionBlocked
}
