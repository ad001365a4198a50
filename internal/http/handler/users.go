package handler

import (
	"net/http"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UsersHandler struct {
	log *zap.Logger
	gw  *gateway.Client
}

func NewUsersHandler(log *zap.Logger, gw *gateway.Client) *UsersHandler {
	return &UsersHandler{log: log.Named("users"), gw: gw}
}

func (h *UsersHandler) ListUsers(c *gin.Context) {
	pf, err := pageFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.gw.ListUsers(c.Request.Context(), credential(c), gateway.UserFilter{
		Page:      pf.Page,
		Size:      pf.Size,
		Name:      c.Query("name"),
		Email:     c.Query("email"),
		Role:      c.Query("role"),
		MarketIDs: queryList(c, "marketIds"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	u, err := h.gw.GetUser(c.Request.Context(), credential(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateUser handles PATCH /users/{id}. Only keys present in the body are
// forwarded; an explicit null clears the field upstream.
//
// Status Codes:
//   - 200 OK → JSON of updated user
//   - 400 Bad Request → invalid JSON, unknown fields or rejected values
//   - 404 Not Found
//   - 409 Conflict → e.g. email already taken
func (h *UsersHandler) UpdateUser(c *gin.Context) {
	var req gateway.UpdateUserInput
	if err := bind(c.Request, &req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.gw.UpdateUser(c.Request.Context(), credential(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
