package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/iho/vaultbank/internal/adapter/repository/postgres"
	"github.com/iho/vaultbank/internal/domain"
	"github.com/iho/vaultbank/internal/usecase"
	"github.com/iho/vaultbank/internal/usecase/mocks"
	"github.com/iho/vaultbank/tests/testutil"
)

func TestConcurrentTransfers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	pool := testDB.Pool
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	gate := &mocks.StubGate{Assessment: domain.RiskAssessment{Score: 5, Level: domain.RiskLow}}

	transferUC := usecase.NewTransferUseCase(
		postgres.NewTxManager(pool),
		accountRepo,
		transactionRepo,
		gate,
		postgres.NewULIDGenerator(),
		postgres.NewRetrier(),
		nil,
		usecase.TransferConfig{},
	)

	t.Run("100 concurrent transfers from same account no overdraft", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		// Balance allows exactly 100 transfers of 10.
		source := testDB.CreateTestAccount(ctx, "source", "password1", 1000)
		dest := testDB.CreateTestAccount(ctx, "dest", "password2", 0)

		numTransfers := 100

		var (
			wg           sync.WaitGroup
			successCount atomic.Int32
			errorCount   atomic.Int32
		)

		wg.Add(numTransfers)

		for range numTransfers {
			go func() {
				defer wg.Done()

				_, err := transferUC.Transfer(ctx, usecase.TransferInput{
					SenderID:         source.ID,
					ReceiverUsername: dest.Username,
					Amount:           10,
				})
				if err != nil {
					errorCount.Add(1)
				} else {
					successCount.Add(1)
				}
			}()
		}

		wg.Wait()

		if successCount.Load() != int32(numTransfers) {
			t.Errorf("expected %d successful transfers, got %d (errors: %d)", numTransfers, successCount.Load(), errorCount.Load())
		}

		if got := testDB.AccountBalance(ctx, source.ID); got != 0 {
			t.Errorf("expected source balance 0, got %d", got)
		}
		if got := testDB.AccountBalance(ctx, dest.ID); got != 1000 {
			t.Errorf("expected dest balance 1000, got %d", got)
		}
	})

	t.Run("concurrent transfers in both directions conserve total", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		alice := testDB.CreateTestAccount(ctx, "alice", "password1", 10_000)
		bob := testDB.CreateTestAccount(ctx, "bob", "password2", 10_000)

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			for range 25 {
				_, _ = transferUC.Transfer(ctx, usecase.TransferInput{
					SenderID:         alice.ID,
					ReceiverUsername: bob.Username,
					Amount:           7,
				})
			}
		}()
		go func() {
			defer wg.Done()
			for range 25 {
				_, _ = transferUC.Transfer(ctx, usecase.TransferInput{
					SenderID:         bob.ID,
					ReceiverUsername: alice.Username,
					Amount:           3,
				})
			}
		}()

		wg.Wait()

		total := testDB.AccountBalance(ctx, alice.ID) + testDB.AccountBalance(ctx, bob.ID)
		if total != 20_000 {
			t.Errorf("expected total balance 20000, got %d", total)
		}
	})
}
