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

type walletService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input *entities.CreateWalletInput) (*entities.Wallet, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*entities.Wallet, error)
	Get(ctx context.Context, walletID, actingUserID uuid.UUID) (*entities.Wallet, error)
}

// WalletHandler handles wallet endpoints
type WalletHandler struct {
	walletUsecase walletService
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletUsecase *usecases.WalletUsecase) *WalletHandler {
	return &WalletHandler{walletUsecase: walletUsecase}
}

// CreateWallet provisions a wallet for the current user
// POST /api/v1/wallets
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	var input entities.CreateWalletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallet, err := h.walletUsecase.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"wallet": wallet})
}

// ListWallets lists wallets for the current user
// GET /api/v1/wallets
func (h *WalletHandler) ListWallets(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	wallets, err := h.walletUsecase.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if wallets == nil {
		wallets = []*entities.Wallet{}
	}

	response.Success(c, http.StatusOK, gin.H{"wallets": wallets})
}

// GetWallet fetches a single wallet
// GET /api/v1/wallets/:id
func (h *WalletHandler) GetWallet(c *gin.Context) {
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

	wallet, err := h.walletUsecase.Get(c.Request.Context(), walletID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"wallet": wallet})
}
