package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iho/vaultbank/internal/domain"
)

// TransferUseCase authorizes transfer requests and applies them to the
// ledger. A request passes the business checks (amount, receiver,
// threshold-gated verification) before any balance is touched; the
// debit-credit-append sequence then runs inside a single storage
// transaction with both account rows locked.
type TransferUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	gate            VerificationGate
	idGen           IDGenerator
	retrier         Retrier
	cache           Cache
	cfg             TransferConfig
}

// TransferConfig holds the tunable risk thresholds. Zero values fall back
// to the documented defaults.
type TransferConfig struct {
	HighValueThreshold       int64
	ExtraScrutinyThreshold   int64
	FraudScoreBlockThreshold float64
	FraudCheckTimeout        time.Duration
}

func (c TransferConfig) withDefaults() TransferConfig {
	if c.HighValueThreshold == 0 {
		c.HighValueThreshold = HighValueThreshold
	}
	if c.ExtraScrutinyThreshold == 0 {
		c.ExtraScrutinyThreshold = ExtraScrutinyThreshold
	}
	if c.FraudScoreBlockThreshold == 0 {
		c.FraudScoreBlockThreshold = FraudScoreBlockThreshold
	}
	if c.FraudCheckTimeout == 0 {
		c.FraudCheckTimeout = DefaultFraudCheckTimeout
	}
	return c
}

// NewTransferUseCase creates a new TransferUseCase. retrier and cache are
// optional; nil disables transient-failure retries and receiver-lookup
// caching respectively.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	gate VerificationGate,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	cfg TransferConfig,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		gate:            gate,
		idGen:           idGen,
		retrier:         retrier,
		cache:           cache,
		cfg:             cfg.withDefaults(),
	}
}

// TransferInput represents a transfer request.
type TransferInput struct {
	SenderID         string
	ReceiverUsername string
	Amount           int64
	Evidence         *domain.VerificationEvidence
}

// Transfer authorizes and executes a transfer. The decision is sequential
// and terminal: a definitive rejection is never re-evaluated. Only the
// commit phase retries, and only on transient storage failures.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	receiver, err := uc.resolveReceiver(ctx, input.ReceiverUsername)
	if err != nil {
		return nil, err
	}

	if receiver.ID == input.SenderID {
		return nil, domain.ErrSelfTransfer
	}

	if input.Amount >= uc.cfg.HighValueThreshold {
		if err := uc.checkVerification(ctx, input); err != nil {
			return nil, err
		}
	}

	var txn *domain.Transaction

	commit := func() error {
		var commitErr error
		txn, commitErr = uc.execute(ctx, input.SenderID, receiver.ID, input.Amount)
		return commitErr
	}

	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, commit)
	} else {
		err = commit()
	}
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// resolveReceiver looks up the receiver account by username. Positive
// username-to-ID resolutions are cached; the account row itself is always
// read fresh.
func (uc *TransferUseCase) resolveReceiver(ctx context.Context, username string) (*domain.Account, error) {
	if uc.cache != nil {
		if id, err := uc.cache.Get(ctx, usernameCacheKey(username)); err == nil && len(id) > 0 {
			account, err := uc.accountRepo.GetByID(ctx, string(id))
			if err == nil {
				return account, nil
			}
		}
	}

	account, err := uc.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrReceiverNotFound
		}

		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, usernameCacheKey(username), []byte(account.ID), UsernameCacheTTL)
	}

	return account, nil
}

// checkVerification enforces the high-value verification requirement and
// consults the fraud oracle. The oracle call is bounded by the configured
// timeout; it must complete (or fail) before any balance is read.
func (uc *TransferUseCase) checkVerification(ctx context.Context, input TransferInput) error {
	if input.Evidence == nil || !input.Evidence.Verified {
		return domain.ErrVerificationRequired
	}

	gateCtx, cancel := context.WithTimeout(ctx, uc.cfg.FraudCheckTimeout)
	defer cancel()

	assessment, err := uc.gate.Assess(gateCtx, *input.Evidence, input.Amount)
	if err != nil {
		return fmt.Errorf("fraud check failed: %w", err)
	}

	if assessment.Score > uc.cfg.FraudScoreBlockThreshold {
		return &domain.TransactionBlockedError{
			Score: assessment.Score,
			Level: assessment.Level,
		}
	}

	if input.Amount >= uc.cfg.ExtraScrutinyThreshold && input.Evidence.FaceImage == "" {
		return &domain.TransactionBlockedError{
			Score: assessment.Score,
			Level: domain.RiskHigh,
		}
	}

	return nil
}

// execute performs the debit-credit-append sequence as a single atomic
// unit. Account rows are locked in sorted ID order so two concurrent
// transfers touching the same accounts cannot deadlock or interleave
// their read-modify-write cycles.
func (uc *TransferUseCase) execute(ctx context.Context, senderID, receiverID string, amount int64) (*domain.Transaction, error) {
	ids := []string{senderID, receiverID}
	sort.Strings(ids)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	var sender, receiver *domain.Account
	for _, a := range accounts {
		switch a.ID {
		case senderID:
			sender = a
		case receiverID:
			receiver = a
		}
	}

	if sender == nil || receiver == nil {
		return nil, domain.ErrAccountNotFound
	}

	if err := sender.ValidateDebit(amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:         uc.idGen.Generate(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     amount,
		Status:     domain.TransactionCompleted,
		CreatedAt:  now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, sender.ID, sender.ApplyDebit(amount), now); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, receiver.ID, receiver.ApplyCredit(amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

func usernameCacheKey(username string) string {
	return "account:username:" + username
}
