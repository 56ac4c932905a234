package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/iho/vaultbank/internal/adapter/http/dto"
	"github.com/iho/vaultbank/internal/adapter/http/middleware"
	"github.com/iho/vaultbank/internal/domain"
	"github.com/iho/vaultbank/internal/infrastructure/metrics"
	"github.com/iho/vaultbank/internal/usecase"
)

// transferService is the slice of TransferUseCase the handler needs.
type transferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*domain.Transaction, error)
}

// TransferHandler handles transfer requests.
type TransferHandler struct {
	transferUC transferService
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC transferService, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, metrics: m}
}

// Create authorizes and executes a transfer from the authenticated user.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()
	transaction, err := h.transferUC.Transfer(r.Context(), req.ToUseCaseInput(claims.AccountID))
	if err != nil {
		var blocked *domain.TransactionBlockedError
		if errors.As(err, &blocked) {
			h.metrics.RecordTransferBlocked("high_risk_score")
			writeBlockedError(w, blocked)
			return
		}
		if errors.Is(err, domain.ErrVerificationRequired) {
			h.metrics.RecordTransferBlocked("verification_required")
		} else {
			h.metrics.RecordTransferError(errorType(err))
		}
		writeError(w, mapDomainError(err), "transfer failed", err.Error())
		return
	}

	h.metrics.RecordTransferCompleted(transaction.Amount, time.Since(start).Seconds())

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(transaction))
}
