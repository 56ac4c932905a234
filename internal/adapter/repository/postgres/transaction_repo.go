package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/vaultbank/internal/domain"
	"github.com/iho/vaultbank/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends a transaction to the ledger within tx.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO transactions (id, sender_id, receiver_id, amount, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		txn.ID,
		txn.SenderID,
		txn.ReceiverID,
		txn.Amount,
		txn.Status,
		txn.CreatedAt,
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `
		SELECT id, sender_id, receiver_id, amount, status, created_at
		FROM transactions
		WHERE id = $1
	`

	var txn domain.Transaction
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&txn.ID, &txn.SenderID, &txn.ReceiverID, &txn.Amount, &txn.Status, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return &txn, nil
}

// ListByParticipant lists transactions where the user is sender or
// receiver. ULIDs sort lexicographically by creation time, so ordering by
// id yields insertion order.
func (r *TransactionRepository) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT id, sender_id, receiver_id, amount, status, created_at
		FROM transactions
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		err := rows.Scan(&txn.ID, &txn.SenderID, &txn.ReceiverID, &txn.Amount, &txn.Status, &txn.CreatedAt)
		if err != nil {
			return nil, err
		}

		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}
