package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "wallet-kita.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Sentinel domain errors map to fixed
// HTTP statuses so the business layer never has to know about HTTP.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
		return
	}

	status := statusFor(err)
	c.JSON(status, gin.H{
		"code":    status,
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainerrors.ErrOwnershipMismatch):
		return http.StatusForbidden
	case errors.Is(err, domainerrors.ErrUnauthorized),
		errors.Is(err, domainerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainerrors.ErrInsufficientFunds),
		errors.Is(err, domainerrors.ErrInsufficientReservedFunds),
		errors.Is(err, domainerrors.ErrInsufficientExternalLiquidity),
		errors.Is(err, domainerrors.ErrExchangeRateNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainerrors.ErrInvalidStatusTransition),
		errors.Is(err, domainerrors.ErrInvalidTransactionType),
		errors.Is(err, domainerrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainerrors.ErrInvalidInput),
		errors.Is(err, domainerrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domainerrors.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
