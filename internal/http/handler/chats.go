package handler

import (
	"net/http"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatsHandler struct {
	log *zap.Logger
	gw  *gateway.Client
}

func NewChatsHandler(log *zap.Logger, gw *gateway.Client) *ChatsHandler {
	return &ChatsHandler{log: log.Named("chats"), gw: gw}
}

func (h *ChatsHandler) ListChats(c *gin.Context) {
	pf, err := pageFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	unread, err := queryBool(c, "unreadOnly")
	if err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.gw.ListChats(c.Request.Context(), credential(c), gateway.ChatFilter{
		MarketID:   c.Query("marketId"),
		Page:       pf.Page,
		Size:       pf.Size,
		UnreadOnly: unread,
		Search:     c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// GetChat answers 404 when the backend has no such chat.
func (h *ChatsHandler) GetChat(c *gin.Context) {
	chat, err := h.gw.GetChat(c.Request.Context(), credential(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if chat == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "chat not found"})
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *ChatsHandler) ListMessages(c *gin.Context) {
	pf, err := pageFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.gw.ListMessages(c.Request.Context(), credential(c), c.Param("id"), pf)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

func (h *ChatsHandler) SendMessage(c *gin.Context) {
	var req gateway.SendMessageInput
	if err := bind(c.Request, &req); err != nil {
		badRequest(c, err)
		return
	}
	msg, err := h.gw.SendMessage(c.Request.Context(), credential(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatsHandler) MarkAsRead(c *gin.Context) {
	res, err := h.gw.MarkChatAsRead(c.Request.Context(), credential(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
