package handlers

import (
	"net/http"
	"strconv"

	"group-chat-service/internal/poll"
	"group-chat-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	pollService *poll.Service
}

func NewPollHandler(pollService *poll.Service) *PollHandler {
	return &PollHandler{pollService: pollService}
}

// RegisterRoutes maps HTTP methods to handler functions
func (h *PollHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/polls/:pollId", h.GetPollByID)
	r.GET("/groups/:groupId/polls", h.GetGroupPolls)
}

// GetPollByID godoc
// @Summary Get a poll
// @Description Get the current snapshot of a single poll
// @Tags polls
// @Produce json
// @Security BearerAuth
// @Param pollId path int true "Poll ID"
// @Success 200 {object} models.PollView
// @Failure 404 {object} map[string]interface{} "Poll not found"
// @Router /polls/{pollId} [get]
func (h *PollHandler) GetPollByID(c *gin.Context) {
	pollID, err := strconv.ParseUint(c.Param("pollId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid poll id"})
		return
	}

	view, err := h.pollService.GetByID(c.Request.Context(), uint(pollID))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetGroupPolls godoc
// @Summary Get a group's polls
// @Description Get snapshots of every poll in a group
// @Tags polls
// @Produce json
// @Security BearerAuth
// @Param groupId path int true "Group ID"
// @Success 200 {array} models.PollView
// @Router /groups/{groupId}/polls [get]
func (h *PollHandler) GetGroupPolls(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("groupId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	views, err := h.pollService.GetByGroup(c.Request.Context(), uint(groupID))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
