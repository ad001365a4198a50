package handler

import (
	"net/http"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportsHandler struct {
	log *zap.Logger
	gw  *gateway.Client
}

func NewReportsHandler(log *zap.Logger, gw *gateway.Client) *ReportsHandler {
	return &ReportsHandler{log: log.Named("reports"), gw: gw}
}

// Summary handles GET /reports/summary?marketId=&from=&to=.
func (h *ReportsHandler) Summary(c *gin.Context) {
	from, err := queryTime(c, "from")
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := queryTime(c, "to")
	if err != nil {
		badRequest(c, err)
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "to must not be before from"})
		return
	}

	sum, err := h.gw.GetReportsSummary(c.Request.Context(), credential(c), gateway.ReportsFilter{
		MarketID: c.Query("marketId"),
		From:     from,
		To:       to,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
