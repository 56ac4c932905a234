package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/vaultbank/internal/domain"
)

// AccountUseCase handles registration, authentication and account queries.
type AccountUseCase struct {
	accountRepo    AccountRepository
	idGen          IDGenerator
	initialBalance int64
}

// NewAccountUseCase creates a new AccountUseCase. initialBalance of zero
// falls back to the documented default.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator, initialBalance int64) *AccountUseCase {
	if initialBalance == 0 {
		initialBalance = InitialBalance
	}

	return &AccountUseCase{
		accountRepo:    accountRepo,
		idGen:          idGen,
		initialBalance: initialBalance,
	}
}

// RegisterInput represents input for creating an account.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a new account with a hashed password and the fixed
// starting balance.
func (uc *AccountUseCase) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if existing, err := uc.accountRepo.GetByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, domain.ErrDuplicateUsername
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		Username:       input.Username,
		HashedPassword: string(hashed),
		Balance:        uc.initialBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	account.HashedPassword = ""
	return account, nil
}

// Authenticate verifies credentials and returns the account on success.
func (uc *AccountUseCase) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByUsername(ctx, username)
	if err != nil {
		// Same error for unknown user and wrong password.
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	account.HashedPassword = ""
	return account, nil
}

// GetAccount retrieves an account by ID with its current balance.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.HashedPassword = ""
	return account, nil
}
