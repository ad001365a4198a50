package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GeocodingHandler struct {
	log *zap.Logger
	gw  *gateway.Client
}

func NewGeocodingHandler(log *zap.Logger, gw *gateway.Client) *GeocodingHandler {
	return &GeocodingHandler{log: log.Named("geocoding"), gw: gw}
}

// Search handles GET /geocoding/search?address=.
func (h *GeocodingHandler) Search(c *gin.Context) {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "address is required"})
		return
	}
	res, err := h.gw.Geocode(c.Request.Context(), credential(c), address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Reverse handles GET /geocoding/reverse?lat=&lng=.
func (h *GeocodingHandler) Reverse(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid lat"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid lng"})
		return
	}
	res, err := h.gw.ReverseGeocode(c.Request.Context(), credential(c), lat, lng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
