package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iho/vaultbank/internal/domain"
)

func newTestAccount(id, username string, balance int64) *domain.Account {
	now := time.Now().UTC()
	return &domain.Account{
		ID:        id,
		Username:  username,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.Create(ctx, newTestAccount("a1", "alice", 1000)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	byID, err := store.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if byID.Username != "alice" || byID.Balance != 1000 {
		t.Fatalf("unexpected account: %+v", byID)
	}

	byName, err := store.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username failed: %v", err)
	}
	if byName.ID != "a1" {
		t.Fatalf("expected a1, got %s", byName.ID)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := store.GetByUsername(ctx, "bob"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestStoreDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.Create(ctx, newTestAccount("a1", "alice", 0)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err := store.Create(ctx, newTestAccount("a2", "alice", 0))
	if !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if err := store.Create(ctx, newTestAccount("a1", "alice", 500)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, _ := store.GetByID(ctx, "a1")
	got.Balance = 0

	again, _ := store.GetByID(ctx, "a1")
	if again.Balance != 500 {
		t.Fatalf("mutation leaked into store, balance %d", again.Balance)
	}
}

func TestStoreCommitAppliesBufferedWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.Create(ctx, newTestAccount("a1", "alice", 1000))
	store.Create(ctx, newTestAccount("a2", "bob", 200))

	tx, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	accounts, err := store.GetByIDsForUpdate(ctx, tx, []string{"a1", "a2"})
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}

	now := time.Now().UTC()
	if err := store.UpdateBalance(ctx, tx, "a1", 700, now); err != nil {
		t.Fatalf("debit write failed: %v", err)
	}
	if err := store.UpdateBalance(ctx, tx, "a2", 500, now); err != nil {
		t.Fatalf("credit write failed: %v", err)
	}
	if err := store.CreateTransaction(ctx, tx, &domain.Transaction{
		ID: "t1", SenderID: "a1", ReceiverID: "a2", Amount: 300,
		Status: domain.TransactionCompleted, CreatedAt: now,
	}); err != nil {
		t.Fatalf("ledger write failed: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	sender, _ := store.GetByID(ctx, "a1")
	receiver, _ := store.GetByID(ctx, "a2")
	if sender.Balance != 700 || receiver.Balance != 500 {
		t.Fatalf("balances %d/%d, want 700/500", sender.Balance, receiver.Balance)
	}

	txn, err := store.GetTransaction(ctx, "t1")
	if err != nil {
		t.Fatalf("get transaction failed: %v", err)
	}
	if txn.Amount != 300 {
		t.Fatalf("unexpected ledger entry: %+v", txn)
	}

	// Rollback after commit must not undo anything.
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback after commit failed: %v", err)
	}
	sender, _ = store.GetByID(ctx, "a1")
	if sender.Balance != 700 {
		t.Fatalf("rollback after commit changed balance to %d", sender.Balance)
	}
}

func TestStoreRollbackDiscardsBufferedWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.Create(ctx, newTestAccount("a1", "alice", 1000))

	tx, _ := store.Begin(ctx)
	if err := store.UpdateBalance(ctx, tx, "a1", 0, time.Now().UTC()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := store.CreateTransaction(ctx, tx, &domain.Transaction{ID: "t1", SenderID: "a1", ReceiverID: "a2", Amount: 1000}); err != nil {
		t.Fatalf("ledger write failed: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	account, _ := store.GetByID(ctx, "a1")
	if account.Balance != 1000 {
		t.Fatalf("rollback leaked balance %d", account.Balance)
	}
	if _, err := store.GetTransaction(ctx, "t1"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("rollback leaked ledger entry, err=%v", err)
	}
}

func TestStoreUpdateBalanceUnknownAccount(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	tx, _ := store.Begin(ctx)
	defer tx.Rollback(ctx)

	err := store.UpdateBalance(ctx, tx, "ghost", 100, time.Now().UTC())
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestStoreRejectsForeignTransaction(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	other := NewStore()

	tx, _ := other.Begin(ctx)
	defer tx.Rollback(ctx)

	if _, err := store.GetByIDsForUpdate(ctx, tx, []string{"a1"}); err == nil {
		t.Fatalf("expected error for foreign transaction")
	}
}

func TestTransactionLogListByParticipant(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	log := store.TransactionLog()

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		tx, _ := store.Begin(ctx)
		txn := &domain.Transaction{
			ID:         fmt.Sprintf("t%d", i),
			SenderID:   "a1",
			ReceiverID: "a2",
			Amount:     int64(100 + i),
			Status:     domain.TransactionCompleted,
			CreatedAt:  now,
		}
		if i%2 == 1 {
			txn.SenderID, txn.ReceiverID = "a3", "a4"
		}
		if err := log.Create(ctx, tx, txn); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
	}

	// a1 participates in t0, t2, t4.
	got, err := log.ListByParticipant(ctx, "a1", 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []string{"t0", "t2", "t4"} {
		if got[i].ID != want {
			t.Fatalf("entry %d: got %s, want %s", i, got[i].ID, want)
		}
	}

	paged, err := log.ListByParticipant(ctx, "a1", 1, 1)
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if len(paged) != 1 || paged[0].ID != "t2" {
		t.Fatalf("unexpected page: %+v", paged)
	}

	empty, err := log.ListByParticipant(ctx, "nobody", 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no entries, got %d", len(empty))
	}
}

func TestStoreConcurrentTransfersConserveTotal(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.Create(ctx, newTestAccount("a1", "alice", 10_000))
	store.Create(ctx, newTestAccount("a2", "bob", 10_000))

	const workers = 8
	const transfersPerWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			from, to := "a1", "a2"
			if w%2 == 1 {
				from, to = to, from
			}
			for i := 0; i < transfersPerWorker; i++ {
				tx, err := store.Begin(ctx)
				if err != nil {
					t.Errorf("begin failed: %v", err)
					return
				}
				accounts, err := store.GetByIDsForUpdate(ctx, tx, []string{"a1", "a2"})
				if err != nil || len(accounts) != 2 {
					tx.Rollback(ctx)
					t.Errorf("lock failed: %v", err)
					return
				}
				balances := map[string]int64{}
				for _, a := range accounts {
					balances[a.ID] = a.Balance
				}
				now := time.Now().UTC()
				store.UpdateBalance(ctx, tx, from, balances[from]-1, now)
				store.UpdateBalance(ctx, tx, to, balances[to]+1, now)
				if err := tx.Commit(ctx); err != nil {
					t.Errorf("commit failed: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	a1, _ := store.GetByID(ctx, "a1")
	a2, _ := store.GetByID(ctx, "a2")
	if a1.Balance+a2.Balance != 20_000 {
		t.Fatalf("total drifted: %d + %d", a1.Balance, a2.Balance)
	}
}
