package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"wallet-kita.backend/internal/domain/entities"
	domainerrors "wallet-kita.backend/internal/domain/errors"
	"wallet-kita.backend/internal/interfaces/http/response"
	"wallet-kita.backend/internal/usecases"
)

type exchangeService interface {
	PreviewConversion(ctx context.Context, amount decimal.Decimal, fromSymbol, toSymbol string) (*entities.ConversionPreview, error)
	LastUpdatedAt(ctx context.Context) (null.Time, error)
	ListCurrencies(ctx context.Context) ([]*entities.Currency, error)
}

// ExchangeHandler handles conversion preview and rate catalog endpoints
type ExchangeHandler struct {
	exchangeUsecase exchangeService
}

// NewExchangeHandler creates a new exchange handler
func NewExchangeHandler(exchangeUsecase *usecases.ExchangeUsecase) *ExchangeHandler {
	return &ExchangeHandler{exchangeUsecase: exchangeUsecase}
}

// PreviewConversion dry-runs a currency conversion
// GET /api/v1/exchange/preview?amount=..&from=..&to=..
func (h *ExchangeHandler) PreviewConversion(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid amount"))
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		response.Error(c, domainerrors.BadRequest("from and to currencies are required"))
		return
	}

	preview, err := h.exchangeUsecase.PreviewConversion(c.Request.Context(), amount, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"preview": preview})
}

// RatesUpdatedAt returns the most recent rate refresh time
// GET /api/v1/exchange/rates/updated-at
func (h *ExchangeHandler) RatesUpdatedAt(c *gin.Context) {
	updatedAt, err := h.exchangeUsecase.LastUpdatedAt(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updatedAt": updatedAt})
}

// ListCurrencies returns the currency catalog
// GET /api/v1/exchange/currencies
func (h *ExchangeHandler) ListCurrencies(c *gin.Context) {
	currencies, err := h.exchangeUsecase.ListCurrencies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if currencies == nil {
		currencies = []*entities.Currency{}
	}

	response.Success(c, http.StatusOK, gin.H{"currencies": currencies})
}
