package response

import (
	"errors"
	"net/http"

	"group-chat-service/internal/chat"
	"group-chat-service/internal/poll"

	"github.com/gin-gonic/gin"
)

// Error writes the error taxonomy as HTTP status codes: invalid input is
// 400, unknown polls 404, single-choice re-votes 409, everything else 500.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, poll.ErrInvalidPoll), errors.Is(err, chat.ErrInvalidMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, poll.ErrPollNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, poll.ErrAlreadyVoted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
