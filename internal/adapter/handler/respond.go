package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trinv/stockroom/internal/core/domain"
	"github.com/trinv/stockroom/internal/core/service"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondError maps the service error taxonomy onto HTTP statuses. Insufficient
// stock additionally reports how much was available; a reservation mismatch is
// the one response that tells the caller retrying will not help.
func respondError(c *gin.Context, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   "insufficient stock",
			"itemId":    stockErr.ItemID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
		return
	}

	var mismatch *domain.ReservationMismatchError
	if errors.As(err, &mismatch) {
		respondMessage(c, http.StatusInternalServerError,
			"sale could not be recorded; stock reservations need reconciliation")
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		respondMessage(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrNotFound):
		respondMessage(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondMessage(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrDuplicateRequest):
		respondMessage(c, http.StatusConflict, "duplicate request")
	case errors.Is(err, domain.ErrStorageUnavailable):
		respondMessage(c, http.StatusServiceUnavailable, "storage unavailable, retry later")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondMessage(c, http.StatusUnauthorized, "invalid credentials")
	default:
		respondMessage(c, http.StatusInternalServerError, "internal error")
	}
}
