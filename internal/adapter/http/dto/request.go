package dto

import (
	"github.com/iho/vaultbank/internal/domain"
	"github.com/iho/vaultbank/internal/usecase"
)

// RegisterRequest represents a request to create an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents a login attempt.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerificationPayload carries the identity evidence attached to a
// high-value transfer.
type VerificationPayload struct {
	Verified  bool   `json:"verified"`
	FaceImage string `json:"face_image,omitempty"`
}

// TransferRequest represents a request to move money to another user.
type TransferRequest struct {
	ReceiverUsername string               `json:"receiver_username"`
	Amount           int64                `json:"amount"`
	Verification     *VerificationPayload `json:"verification,omitempty"`
}

// ToUseCaseInput converts to use case input for the given sender.
func (r *TransferRequest) ToUseCaseInput(senderID string) usecase.TransferInput {
	input := usecase.TransferInput{
		SenderID:         senderID,
		ReceiverUsername: r.ReceiverUsername,
		Amount:           r.Amount,
	}
	if r.Verification != nil {
		input.Evidence = &domain.VerificationEvidence{
			Verified:  r.Verification.Verified,
			FaceImage: r.Verification.FaceImage,
		}
	}
	return input
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
