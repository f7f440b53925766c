package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/domain"
)

// respondError maps engine errors onto the {"detail": ...} shape the
// storefront already understands from the commerce backend. Backend
// rejections keep their status and message verbatim; an unreachable backend
// is reported distinctly from a rejection.
func respondError(c *gin.Context, err error) {
	var backendErr *domain.BackendError
	switch {
	case errors.As(err, &backendErr):
		c.JSON(backendErr.Status, gin.H{"detail": backendErr.Error()})
	case errors.Is(err, domain.ErrBackendUnreachable):
		c.JSON(http.StatusBadGateway, gin.H{"detail": "could not reach the commerce backend"})
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "login required"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
	case errors.Is(err, domain.ErrPostalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "postal code not found"})
	case errors.Is(err, domain.ErrStepLocked):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	}
}
