// Package memory provides an in-process storage backend. It implements
// the same repository and transaction contracts as the postgres adapter,
// which lets the server run without external services for demos and
// tests. Data does not survive a restart.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iho/vaultbank/internal/domain"
	"github.com/iho/vaultbank/internal/usecase"
)

// Store holds all state behind a single mutex. A storage transaction
// takes the write lock for its whole lifetime, so transfers are fully
// serialized; reads outside a transaction take the read lock.
type Store struct {
	mu sync.RWMutex

	accounts   map[string]*domain.Account
	byUsername map[string]string
	// ledger keeps transactions in insertion order.
	ledger    []*domain.Transaction
	ledgerIdx map[string]*domain.Transaction
}

var errForeignTx = errors.New("memory: transaction does not belong to this store")

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		accounts:   make(map[string]*domain.Account),
		byUsername: make(map[string]string),
		ledgerIdx:  make(map[string]*domain.Transaction),
	}
}

// Create inserts a new account.
func (s *Store) Create(_ context.Context, account *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byUsername[account.Username]; ok {
		return domain.ErrDuplicateUsername
	}

	stored := *account
	s.accounts[stored.ID] = &stored
	s.byUsername[stored.Username] = stored.ID
	return nil
}

// GetByID returns a copy of the account with the given id.
func (s *Store) GetByID(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id)
}

// GetByUsername returns a copy of the account with the given username.
func (s *Store) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return s.lookup(id)
}

// GetByIDsForUpdate returns the accounts in id order. The transaction
// already holds the store's write lock, so the rows cannot change under
// the caller; there is nothing extra to lock.
func (s *Store) GetByIDsForUpdate(_ context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if _, err := s.ownTx(tx); err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		account, err := s.lookup(id)
		if err != nil {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// UpdateBalance buffers a balance write; it becomes visible on Commit.
func (s *Store) UpdateBalance(_ context.Context, tx usecase.Transaction, id string, balance int64, updatedAt time.Time) error {
	mtx, err := s.ownTx(tx)
	if err != nil {
		return err
	}
	if _, ok := s.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}

	mtx.balances[id] = balanceWrite{balance: balance, updatedAt: updatedAt}
	return nil
}

// CreateTransaction buffers a ledger append; it becomes visible on Commit.
func (s *Store) CreateTransaction(_ context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	mtx, err := s.ownTx(tx)
	if err != nil {
		return err
	}

	stored := *txn
	mtx.appended = append(mtx.appended, &stored)
	return nil
}

// GetTransaction returns a copy of the ledger entry with the given id.
func (s *Store) GetTransaction(_ context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.ledgerIdx[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	out := *txn
	return &out, nil
}

// ListByParticipant returns ledger entries involving the user, in
// insertion order.
func (s *Store) ListByParticipant(_ context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := 0
	out := make([]*domain.Transaction, 0, limit)
	for _, txn := range s.ledger {
		if !txn.Involves(userID) {
			continue
		}
		if matched >= offset && len(out) < limit {
			entry := *txn
			out = append(out, &entry)
		}
		matched++
	}
	return out, nil
}

// Begin takes the write lock and returns a transaction that buffers
// writes until Commit.
func (s *Store) Begin(_ context.Context) (usecase.Transaction, error) {
	s.mu.Lock()
	return &memTx{
		store:    s,
		balances: make(map[string]balanceWrite),
	}, nil
}

type balanceWrite struct {
	balance   int64
	updatedAt time.Time
}

type memTx struct {
	store    *Store
	balances map[string]balanceWrite
	appended []*domain.Transaction
	done     bool
}

// Commit applies the buffered writes and releases the store lock.
func (t *memTx) Commit(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	for id, w := range t.balances {
		account := t.store.accounts[id]
		account.Balance = w.balance
		account.UpdatedAt = w.updatedAt
	}
	for _, txn := range t.appended {
		t.store.ledger = append(t.store.ledger, txn)
		t.store.ledgerIdx[txn.ID] = txn
	}

	t.store.mu.Unlock()
	return nil
}

// Rollback discards the buffered writes and releases the store lock.
// Calling it after Commit is a no-op.
func (t *memTx) Rollback(context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

// lookup requires the caller to hold at least the read lock.
func (s *Store) lookup(id string) (*domain.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := *account
	return &out, nil
}

func (s *Store) ownTx(tx usecase.Transaction) (*memTx, error) {
	mtx, ok := tx.(*memTx)
	if !ok || mtx.store != s {
		return nil, errForeignTx
	}
	return mtx, nil
}

// TransactionLog exposes the store's ledger as a transaction repository.
// A separate view is needed because the account and ledger contracts
// both declare a GetByID with different return types.
type TransactionLog struct {
	store *Store
}

// TransactionLog returns the ledger view of the store.
func (s *Store) TransactionLog() *TransactionLog {
	return &TransactionLog{store: s}
}

func (l *TransactionLog) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	return l.store.CreateTransaction(ctx, tx, txn)
}

func (l *TransactionLog) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	return l.store.GetTransaction(ctx, id)
}

func (l *TransactionLog) ListByParticipant(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	return l.store.ListByParticipant(ctx, userID, limit, offset)
}
