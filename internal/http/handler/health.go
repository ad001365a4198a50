package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger is anything that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Ping(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) }

// Ready answers 503 while Redis (sessions and revocations) is unreachable.
func Ready(log *zap.Logger, p Pinger) gin.HandlerFunc {
	log = log.Named("ready")
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			log.Warn("not ready", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "ready"})
	}
}
