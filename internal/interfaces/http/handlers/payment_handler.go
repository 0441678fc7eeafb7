package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/interfaces/http/middleware"
	"wallet-kita.backend/internal/interfaces/http/response"
	"wallet-kita.backend/internal/usecases"
)

type paymentService interface {
	Deposit(ctx context.Context, input *entities.DepositInput, actingUserID uuid.UUID) (*entities.PendingTransaction, error)
	Withdraw(ctx context.Context, input *entities.WithdrawInput, actingUserID uuid.UUID) (*entities.PendingTransaction, error)
	ConfirmDeposit(ctx context.Context, pendingID uuid.UUID, input *entities.ConfirmInput) (*entities.Transaction, error)
	ConfirmWithdraw(ctx context.Context, pendingID uuid.UUID, input *entities.ConfirmInput) (*entities.Transaction, error)
	GetPending(ctx context.Context, pendingID, actingUserID uuid.UUID) (*entities.PendingTransaction, error)
}

// PaymentHandler handles external settlement endpoints
type PaymentHandler struct {
	paymentUsecase paymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUsecase *usecases.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUsecase: paymentUsecase}
}

// Deposit stages an external deposit
// POST /api/v1/payments/deposit
func (h *PaymentHandler) Deposit(c *gin.Context) {
	var input entities.DepositInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	pending, err := h.paymentUsecase.Deposit(c.Request.Context(), &input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"pendingTransaction": pending})
}

// Withdraw stages an external withdrawal
// POST /api/v1/payments/withdraw
func (h *PaymentHandler) Withdraw(c *gin.Context) {
	var input entities.WithdrawInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	pending, err := h.paymentUsecase.Withdraw(c.Request.Context(), &input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"pendingTransaction": pending})
}

// ConfirmDeposit resolves a pending deposit with the operator's verdict
// POST /api/v1/payments/deposit/:id/confirm
func (h *PaymentHandler) ConfirmDeposit(c *gin.Context) {
	h.confirm(c, h.paymentUsecase.ConfirmDeposit)
}

// ConfirmWithdraw resolves a pending withdrawal with the operator's verdict
// POST /api/v1/payments/withdraw/:id/confirm
func (h *PaymentHandler) ConfirmWithdraw(c *gin.Context) {
	h.confirm(c, h.paymentUsecase.ConfirmWithdraw)
}

func (h *PaymentHandler) confirm(c *gin.Context, fn func(ctx context.Context, pendingID uuid.UUID, input *entities.ConfirmInput) (*entities.Transaction, error)) {
	pendingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid pending transaction id"))
		return
	}

	var input entities.ConfirmInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	tx, err := fn(c.Request.Context(), pendingID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	body := gin.H{
		"id":     pendingID,
		"status": input.NewStatus,
	}
	if tx != nil {
		body["transaction"] = tx
	}
	response.Success(c, http.StatusOK, body)
}

// GetPending fetches one pending transaction of the current user
// GET /api/v1/payments/pending/:id
func (h *PaymentHandler) GetPending(c *gin.Context) {
	pendingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid pending transaction id"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	pending, err := h.paymentUsecase.GetPending(c.Request.Context(), pendingID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"pendingTransaction": pending})
}
