package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/chatbridge/gateway/internal/apperr"
	"github.com/chatbridge/gateway/internal/history"
	"github.com/gin-gonic/gin"
)

type createConversationReq struct {
	SessionID string            `json:"sessionId"`
	UserID    string            `json:"userId"`
	Messages  []history.Message `json:"messages"`
	Metadata  *history.Metadata `json:"metadata"`
}

func (h *Handler) CreateConversation(c *gin.Context) {
	var req createConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.BadRequest("invalid json body"))
		return
	}
	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.UserID) == "" {
		_ = c.Error(apperr.BadRequest("sessionId and userId are required"))
		return
	}

	conv, err := h.History.CreateConversation(c.Request.Context(), history.CreateInput{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Messages:  req.Messages,
		Metadata:  req.Metadata,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

func (h *Handler) ListConversations(c *gin.Context) {
	userID := c.Query("userId")
	if strings.TrimSpace(userID) == "" {
		_ = c.Error(apperr.BadRequest("userId query parameter is required"))
		return
	}

	// page/limit fall back to defaults on absence or parse failure
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 0
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = 0
	}

	result, err := h.History.ListConversations(c.Request.Context(), userID, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetConversation(c *gin.Context) {
	conv, err := h.History.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

type appendMessagesReq struct {
	Messages []history.Message `json:"messages"`
}

func (h *Handler) AppendMessages(c *gin.Context) {
	var req appendMessagesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperr.BadRequest("invalid json body"))
		return
	}
	if len(req.Messages) == 0 {
		_ = c.Error(apperr.BadRequest("messages must be a non-empty array"))
		return
	}

	conv, err := h.History.AppendMessages(c.Request.Context(), c.Param("id"), req.Messages)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	if _, err := h.History.DeleteConversation(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
