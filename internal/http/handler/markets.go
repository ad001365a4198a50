package handler

import (
	"net/http"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MarketsHandler serves markets and their per-market settings.
//
// Supported operations:
//   - GET  /markets                        → List markets visible to the principal
//   - POST /markets                        → Create a market
//   - GET  /markets/{id}                   → Retrieve a market
//   - GET  /markets/{id}/delivery-settings → Retrieve delivery settings
//   - POST /markets/{id}/delivery-settings → Save delivery settings
//   - GET  /markets/{id}/opening-hours     → Retrieve the weekly schedule
//   - PUT  /markets/{id}/opening-hours     → Replace the weekly schedule
//   - GET  /public/markets[/{id}]          → Anonymous storefront listing
type MarketsHandler struct {
	log *zap.Logger
	gw  *gateway.Client
}

func NewMarketsHandler(log *zap.Logger, gw *gateway.Client) *MarketsHandler {
	return &MarketsHandler{log: log.Named("markets"), gw: gw}
}

func marketFilter(c *gin.Context) (gateway.MarketFilter, error) {
	pf, err := pageFilter(c)
	if err != nil {
		return gateway.MarketFilter{}, err
	}
	active, err := queryBool(c, "active")
	if err != nil {
		return gateway.MarketFilter{}, err
	}
	return gateway.MarketFilter{
		Page:        pf.Page,
		Size:        pf.Size,
		Name:        c.Query("name"),
		City:        c.Query("city"),
		OwnerID:     c.Query("ownerId"),
		ManagersIDs: queryList(c, "managersIds"),
		Active:      active,
	}, nil
}

func (h *MarketsHandler) ListMarkets(c *gin.Context) {
	f, err := marketFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.gw.ListMarkets(c.Request.Context(), credential(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

func (h *MarketsHandler) GetMarket(c *gin.Context) {
	m, err := h.gw.GetMarket(c.Request.Context(), credential(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// CreateMarket handles POST /markets.
//
// Status Codes:
//   - 201 Created → JSON of created market, `Location` header set
//   - 400 Bad Request → invalid JSON or rejected by the backend
//   - 403 Forbidden
func (h *MarketsHandler) CreateMarket(c *gin.Context) {
	var req gateway.CreateMarketInput
	if err := bind(c.Request, &req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := h.gw.CreateMarket(c.Request.Context(), credential(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	if m.ID != "" {
		c.Header("Location", "/api/markets/"+m.ID)
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MarketsHandler) ListPublicMarkets(c *gin.Context) {
	f, err := marketFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.gw.ListPublicMarkets(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

func (h *MarketsHandler) GetPublicMarket(c *gin.Context) {
	m, err := h.gw.GetPublicMarket(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MarketsHandler) GetDeliverySettings(c *gin.Context) {
	ds, err := h.gw.GetDeliverySettings(c.Request.Context(), credential(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (h *MarketsHandler) SaveDeliverySettings(c *gin.Context) {
	var req gateway.DeliverySettingsInput
	if err := bind(c.Request, &req); err != nil {
		badRequest(c, err)
		return
	}
	ds, err := h.gw.SaveDeliverySettings(c.Request.Context(), credential(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

// GetOpeningHours always answers with a schedule; the gateway falls back to
// the default week unless the caller is unauthenticated.
func (h *MarketsHandler) GetOpeningHours(c *gin.Context) {
	oh, err := h.gw.GetOpeningHours(c.Request.Context(), credential(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, oh)
}

func (h *MarketsHandler) UpdateOpeningHours(c *gin.Context) {
	var req struct {
		Schedule []gateway.DaySchedule `json:"schedule"`
	}
	if err := bind(c.Request, &req); err != nil {
		badRequest(c, err)
		return
	}
	oh, err := h.gw.UpdateOpeningHours(c.Request.Context(), credential(c), c.Param("id"), req.Schedule)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, oh)
}
