package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/interfaces/http/middleware"
	"wallet-kita.backend/internal/interfaces/http/response"
	"wallet-kita.backend/internal/usecases"
)

type transactionService interface {
	Transfer(ctx context.Context, input *entities.TransferInput, actingUserID uuid.UUID) (*entities.Transaction, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entities.Transaction, error)
	ListByWallet(ctx context.Context, walletID, actingUserID uuid.UUID) ([]*entities.Transaction, error)
}

// TransactionHandler handles transfer and ledger history endpoints
type TransactionHandler struct {
	txUsecase transactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(txUsecase *usecases.TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{txUsecase: txUsecase}
}

// Transfer moves funds between two wallets
// POST /api/v1/transfers
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var input entities.TransferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	tx, err := h.txUsecase.Transfer(c.Request.Context(), &input, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"transaction": tx})
}

// ListTransactions lists the current user's ledger history
// GET /api/v1/transactions
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.txUsecase.ListByOwner(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	if txs == nil {
		txs = []*entities.Transaction{}
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txs})
}

// ListWalletTransactions lists one wallet's ledger history
// GET /api/v1/wallets/:id/transactions
func (h *TransactionHandler) ListWalletTransactions(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid wallet id"))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	txs, err := h.txUsecase.ListByWallet(c.Request.Context(), walletID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if txs == nil {
		txs = []*entities.Transaction{}
	}

	response.Success(c, http.StatusOK, gin.H{"transactions": txs})
}
