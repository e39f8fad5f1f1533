package handlers

import (
	"net/http"
	"strconv"

	"group-chat-service/internal/chat"
	"group-chat-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *chat.Service
}

func NewChatHandler(chatService *chat.Service) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterRoutes maps HTTP methods to handler functions
func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/groups/:groupId/messages", h.GetGroupMessages)
}

// GetGroupMessages godoc
// @Summary Get a group's message history
// @Description Get all messages of a group ordered by timestamp ascending
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param groupId path int true "Group ID"
// @Success 200 {array} models.ChatMessage
// @Router /groups/{groupId}/messages [get]
func (h *ChatHandler) GetGroupMessages(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("groupId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	messages, err := h.chatService.GetByGroup(c.Request.Context(), uint(groupID))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
