package handler

import (
	"errors"
	"net/http"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/gin-gonic/gin"
)

// statusForKind maps a gateway failure onto the status the BFF answers with.
// Backend faults surface as 502 since this service is a gateway.
func statusForKind(k gateway.Kind) int {
	switch k {
	case gateway.KindUnauthenticated:
		return http.StatusUnauthorized
	case gateway.KindForbidden:
		return http.StatusForbidden
	case gateway.KindNotFound:
		return http.StatusNotFound
	case gateway.KindValidation:
		return http.StatusBadRequest
	case gateway.KindConflict:
		return http.StatusConflict
	case gateway.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadGateway
	}
}

// respondError records err on the context and writes the JSON error body.
// Gateway errors carry a message that is safe to show; anything else is
// reported as an internal error.
func respondError(c *gin.Context, err error) {
	c.Error(err)

	var gerr *gateway.Error
	if !errors.As(err, &gerr) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
		return
	}

	body := gin.H{"message": gerr.Message}
	if gerr.Kind == gateway.KindValidation && len(gerr.Fields) > 0 {
		body["fields"] = gerr.Fields
	}
	c.JSON(statusForKind(gerr.Kind), body)
}

// badRequest answers 400 for malformed client input.
func badRequest(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}
