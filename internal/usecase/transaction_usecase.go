package usecase

import (
	"context"

	"github.com/iho/vaultbank/internal/domain"
)

// TransactionUseCase handles ledger queries.
type TransactionUseCase struct {
	transactionRepo TransactionRepository
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(transactionRepo TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{transactionRepo: transactionRepo}
}

// ListByParticipantInput represents input for listing a user's history.
type ListByParticipantInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListByParticipant lists transactions where the user is sender or
// receiver, in insertion order.
func (uc *TransactionUseCase) ListByParticipant(ctx context.Context, input ListByParticipantInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transactionRepo.ListByParticipant(ctx, input.UserID, limit, offset)
}

// GetTransaction retrieves a transaction by ID, restricted to its
// participants.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id, requesterID string) (*domain.Transaction, error) {
	txn, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !txn.Involves(requesterID) {
		return nil, domain.ErrTransactionNotFound
	}

	return txn, nil
}
