package handlers

import (
	"net/http"
	"strconv"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/service"
	"github.com/farmmitra/farmmitra-api/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler handles advisor chat requests.
type ChatHandler struct {
	Service *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{Service: chatService}
}

// SendMessage handles POST /v1/chat/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		ConversationID uint   `json:"conversation_id"`
		Message        string `json:"message" binding:"required"`
		Language       string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	resp, err := h.Service.SendMessage(c.Request.Context(), user, req.ConversationID, req.Message, req.Language)
	if err != nil {
		logger.Get().Error("failed to send chat message", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetConversation handles GET /v1/chat/conversations/:conversation_id
func (h *ChatHandler) GetConversation(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	conversationID, err := parseUintParam(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	conversation, err := h.Service.GetConversation(user, conversationID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversation": conversation})
}

// ListConversations handles GET /v1/chat/conversations
func (h *ChatHandler) ListConversations(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page, pageSize := paginationParams(c)

	summaries, total, err := h.Service.ListConversations(user, page, pageSize)
	if err != nil {
		logger.Get().Error("failed to list conversations", zap.Uint("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": summaries, "total": total, "page": page})
}

// DeleteConversation handles DELETE /v1/chat/conversations/:conversation_id
func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	conversationID, err := parseUintParam(c.Param("conversation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	if err := h.Service.DeleteConversation(user, conversationID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}

// paginationParams reads page and page_size query params with sane bounds.
func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
