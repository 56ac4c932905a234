package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/vaultbank/internal/domain"
	"github.com/iho/vaultbank/internal/usecase"
	"github.com/iho/vaultbank/internal/usecase/mocks"
)

func seedAccount(t *testing.T, repo *mocks.MockAccountRepository, id, username string, balance int64) {
	t.Helper()

	err := repo.Create(context.Background(), &domain.Account{
		ID:       id,
		Username: username,
		Balance:  balance,
	})
	if err != nil {
		t.Fatalf("failed to seed account %s: %v", id, err)
	}
}

func newTransferUseCase(accRepo *mocks.MockAccountRepository, txnRepo *mocks.MockTransactionRepository, gate usecase.VerificationGate) *usecase.TransferUseCase {
	return usecase.NewTransferUseCase(
		mocks.NewMockTransactionManager(),
		accRepo,
		txnRepo,
		gate,
		mocks.NewMockIDGenerator(),
		mocks.PassthroughRetrier{},
		nil,
		usecase.TransferConfig{},
	)
}

func TestTransferUseCase_Transfer(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.TransferInput
		gate      *mocks.StubGate
		errorType error
		// balances after the call, asserted only when set
		wantSenderBalance   int64
		wantReceiverBalance int64
	}{
		{
			name: "below threshold succeeds without verification",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "bob",
				Amount:           500,
			},
			gate:                &mocks.StubGate{},
			wantSenderBalance:   999_500,
			wantReceiverBalance: 500,
		},
		{
			name: "zero amount rejected",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "bob",
				Amount:           0,
			},
			gate:      &mocks.StubGate{},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount rejected",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "bob",
				Amount:           -100,
			},
			gate:      &mocks.StubGate{},
			errorType: domain.ErrInvalidAmount,
		},
		{
			name: "unknown receiver rejected",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "nobody",
				Amount:           500,
			},
			gate:      &mocks.StubGate{},
			errorType: domain.ErrReceiverNotFound,
		},
		{
			name: "self transfer rejected",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "alice",
				Amount:           500,
			},
			gate:      &mocks.StubGate{},
			errorType: domain.ErrSelfTransfer,
		},
		{
			name: "high value without evidence rejected",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "bob",
				Amount:           150_000,
			},
			gate:      &mocks.StubGate{},
			errorType: domain.ErrVerificationRequired,
		},
		{
			name: "high value with unverified evidence rejected",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "bob",
				Amount:           150_000,
				Evidence:         &domain.VerificationEvidence{Verified: false},
			},
			gate:      &mocks.StubGate{},
			errorType: domain.ErrVerificationRequired,
		},
		{
			name: "high value with verified evidence succeeds",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "bob",
				Amount:           150_000,
				Evidence:         &domain.VerificationEvidence{Verified: true},
			},
			gate:                &mocks.StubGate{Assessment: domain.RiskAssessment{Score: 12, Level: domain.RiskLow}},
			wantSenderBalance:   850_000,
			wantReceiverBalance: 150_000,
		},
		{
			name: "blocked by fraud score",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "bob",
				Amount:           150_000,
				Evidence:         &domain.VerificationEvidence{Verified: true},
			},
			gate:      &mocks.StubGate{Assessment: domain.RiskAssessment{Score: 92, Level: domain.RiskHigh}},
			errorType: domain.ErrTransactionBlocked,
		},
		{
			name: "extra scrutiny without photo blocked",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "bob",
				Amount:           600_000,
				Evidence:         &domain.VerificationEvidence{Verified: true},
			},
			gate:      &mocks.StubGate{Assessment: domain.RiskAssessment{Score: 10, Level: domain.RiskLow}},
			errorType: domain.ErrTransactionBlocked,
		},
		{
			name: "extra scrutiny with photo succeeds",
			input: usecase.TransferInput{
				SenderID:         "acct-a",
				ReceiverUsername: "bob",
				Amount:           600_000,
				Evidence:         &domain.VerificationEvidence{Verified: true, FaceImage: "ZmFjZQ=="},
			},
			gate:                &mocks.StubGate{Assessment: domain.RiskAssessment{Score: 10, Level: domain.RiskLow}},
			wantSenderBalance:   400_000,
			wantReceiverBalance: 600_000,
		},
		{
			name: "insufficient funds rejected",
			input: usecase.TransferInput{
				SenderID:         "acct-c",
				ReceiverUsername: "bob",
				Amount:           250_000,
				Evidence:         &domain.VerificationEvidence{Verified: true},
			},
			gate:      &mocks.StubGate{Assessment: domain.RiskAssessment{Score: 5, Level: domain.RiskLow}},
			errorType: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accRepo := mocks.NewMockAccountRepository()
			txnRepo := mocks.NewMockTransactionRepository()
			seedAccount(t, accRepo, "acct-a", "alice", 1_000_000)
			seedAccount(t, accRepo, "acct-b", "bob", 0)
			seedAccount(t, accRepo, "acct-c", "carol", 200_000)

			totalBefore := accRepo.Balance("acct-a") + accRepo.Balance("acct-b") + accRepo.Balance("acct-c")

			uc := newTransferUseCase(accRepo, txnRepo, tt.gate)
			txn, err := uc.Transfer(context.Background(), tt.input)

			if tt.errorType != nil {
				if !errors.Is(err, tt.errorType) {
					t.Fatalf("expected error %v, got %v", tt.errorType, err)
				}
				if txnRepo.Count() != 0 {
					t.Errorf("rejected transfer must not append to the ledger, found %d records", txnRepo.Count())
				}
				if accRepo.Balance("acct-a") != 1_000_000 || accRepo.Balance("acct-b") != 0 || accRepo.Balance("acct-c") != 200_000 {
					t.Error("rejected transfer must not move balances")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if txn.Status != domain.TransactionCompleted {
				t.Errorf("expected status completed, got %s", txn.Status)
			}
			if txn.SenderID != tt.input.SenderID {
				t.Errorf("expected sender %s, got %s", tt.input.SenderID, txn.SenderID)
			}
			if txn.Amount != tt.input.Amount {
				t.Errorf("expected amount %d, got %d", tt.input.Amount, txn.Amount)
			}
			if txnRepo.Count() != 1 {
				t.Errorf("expected exactly one ledger record, got %d", txnRepo.Count())
			}

			if accRepo.Balance("acct-a") != tt.wantSenderBalance {
				t.Errorf("expected sender balance %d, got %d", tt.wantSenderBalance, accRepo.Balance("acct-a"))
			}
			if accRepo.Balance("acct-b") != tt.wantReceiverBalance {
				t.Errorf("expected receiver balance %d, got %d", tt.wantReceiverBalance, accRepo.Balance("acct-b"))
			}

			totalAfter := accRepo.Balance("acct-a") + accRepo.Balance("acct-b") + accRepo.Balance("acct-c")
			if totalBefore != totalAfter {
				t.Errorf("balance sum changed: before=%d after=%d", totalBefore, totalAfter)
			}
		})
	}
}

func TestTransferUseCase_BlockedCarriesRiskMetadata(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	seedAccount(t, accRepo, "acct-a", "alice", 1_000_000)
	seedAccount(t, accRepo, "acct-b", "bob", 0)

	gate := &mocks.StubGate{Assessment: domain.RiskAssessment{Score: 88.5, Level: domain.RiskHigh}}
	uc := newTransferUseCase(accRepo, txnRepo, gate)

	_, err := uc.Transfer(context.Background(), usecase.TransferInput{
		SenderID:         "acct-a",
		ReceiverUsername: "bob",
		Amount:           150_000,
		Evidence:         &domain.VerificationEvidence{Verified: true},
	})

	var blocked *domain.TransactionBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected TransactionBlockedError, got %v", err)
	}
	if blocked.Score != 88.5 || blocked.Level != domain.RiskHigh {
		t.Errorf("unexpected risk metadata: %+v", blocked)
	}
}

func TestTransferUseCase_GateNotConsultedBelowThreshold(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	seedAccount(t, accRepo, "acct-a", "alice", 1_000_000)
	seedAccount(t, accRepo, "acct-b", "bob", 0)

	gate := &mocks.StubGate{}
	uc := newTransferUseCase(accRepo, txnRepo, gate)

	_, err := uc.Transfer(context.Background(), usecase.TransferInput{
		SenderID:         "acct-a",
		ReceiverUsername: "bob",
		Amount:           99_999,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gate.Calls() != 0 {
		t.Errorf("gate must not be consulted below the threshold, got %d calls", gate.Calls())
	}
}

func TestTransferUseCase_GateErrorAbortsBeforeMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	seedAccount(t, accRepo, "acct-a", "alice", 1_000_000)
	seedAccount(t, accRepo, "acct-b", "bob", 0)

	gate := mocks.NewMockVerificationGate(ctrl)
	gate.EXPECT().
		Assess(gomock.Any(), domain.VerificationEvidence{Verified: true}, int64(150_000)).
		Return(domain.RiskAssessment{}, context.DeadlineExceeded)

	uc := newTransferUseCase(accRepo, txnRepo, gate)

	_, err := uc.Transfer(context.Background(), usecase.TransferInput{
		SenderID:         "acct-a",
		ReceiverUsername: "bob",
		Amount:           150_000,
		Evidence:         &domain.VerificationEvidence{Verified: true},
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}

	if accRepo.Balance("acct-a") != 1_000_000 || accRepo.Balance("acct-b") != 0 {
		t.Error("gate failure must not move balances")
	}
	if txnRepo.Count() != 0 {
		t.Error("gate failure must not append to the ledger")
	}
}

func TestTransferUseCase_CachedReceiverResolution(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	seedAccount(t, accRepo, "acct-a", "alice", 1_000_000)
	seedAccount(t, accRepo, "acct-b", "bob", 0)

	byUsernameCalls := 0
	accRepo.GetByUsernameFunc = func(ctx context.Context, username string) (*domain.Account, error) {
		byUsernameCalls++
		if username == "bob" {
			return &domain.Account{ID: "acct-b", Username: "bob"}, nil
		}
		return nil, domain.ErrAccountNotFound
	}

	uc := usecase.NewTransferUseCase(
		mocks.NewMockTransactionManager(),
		accRepo,
		txnRepo,
		&mocks.StubGate{},
		mocks.NewMockIDGenerator(),
		mocks.PassthroughRetrier{},
		mocks.NewMockCache(),
		usecase.TransferConfig{},
	)

	for i := 0; i < 3; i++ {
		if _, err := uc.Transfer(context.Background(), usecase.TransferInput{
			SenderID:         "acct-a",
			ReceiverUsername: "bob",
			Amount:           100,
		}); err != nil {
			t.Fatalf("transfer %d failed: %v", i, err)
		}
	}

	if byUsernameCalls != 1 {
		t.Errorf("expected a single username lookup with warm cache, got %d", byUsernameCalls)
	}
}

func TestTransferUseCase_RetrierRetriesTransientFailures(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	seedAccount(t, accRepo, "acct-a", "alice", 1_000_000)
	seedAccount(t, accRepo, "acct-b", "bob", 0)

	transient := errors.New("deadlock detected")
	failures := 0
	accRepo.GetByIDsForUpdateFunc = func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
		if failures < 2 {
			failures++
			return nil, transient
		}
		accRepo.GetByIDsForUpdateFunc = nil
		return accRepo.GetByIDsForUpdate(ctx, tx, ids)
	}

	retrier := retryNTimes{attempts: 5, retryable: transient}

	uc := usecase.NewTransferUseCase(
		mocks.NewMockTransactionManager(),
		accRepo,
		txnRepo,
		&mocks.StubGate{},
		mocks.NewMockIDGenerator(),
		retrier,
		nil,
		usecase.TransferConfig{},
	)

	txn, err := uc.Transfer(context.Background(), usecase.TransferInput{
		SenderID:         "acct-a",
		ReceiverUsername: "bob",
		Amount:           500,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn == nil {
		t.Fatal("expected transaction after retries")
	}
	if failures != 2 {
		t.Errorf("expected 2 transient failures before success, got %d", failures)
	}
}

// retryNTimes retries a specific error up to a fixed number of attempts.
type retryNTimes struct {
	attempts  int
	retryable error
}

func (r retryNTimes) Retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i < r.attempts; i++ {
		err = operation()
		if err == nil || !errors.Is(err, r.retryable) {
			return err
		}
		time.Sleep(time.Millisecond)
	}
	return err
}
