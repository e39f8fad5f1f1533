package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"group-chat-service/internal/chat"
	"group-chat-service/internal/hub"
	"group-chat-service/internal/models"
	"group-chat-service/internal/poll"
	"group-chat-service/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, implement proper origin checking
		return true
	},
}

// Control frames handled by the transport layer itself; everything else
// goes through the event router.
const (
	actionJoin  = "join"
	actionLeave = "leave"
)

type WSHandler struct {
	hub    *hub.Hub
	router *router.Router
}

func NewWSHandler(h *hub.Hub, r *router.Router) *WSHandler {
	return &WSHandler{hub: h, router: r}
}

// Serve upgrades the connection and pumps frames until the client
// disconnects. Join/leave frames manage group subscriptions; all other
// frames are dispatched as actions, with failures reported back to this
// client only.
func (h *WSHandler) Serve(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "userID", userID, "error", err)
		return
	}

	client := h.hub.NewClient(conn, userID)
	slog.Info("WebSocket connection established", "clientID", client.ID(), "userID", userID)

	client.Run(h.handleFrame)
}

func (h *WSHandler) handleFrame(ctx context.Context, client *hub.Client, frame []byte) {
	var action router.Action
	if err := json.Unmarshal(frame, &action); err != nil {
		slog.Debug("Invalid frame", "clientID", client.ID(), "error", err)
		client.SendEvent(models.NewErrorEvent("INVALID_ACTION", "invalid action format"))
		return
	}

	switch action.Type {
	case actionJoin:
		h.hub.Subscribe(action.GroupID, client)
		return
	case actionLeave:
		h.hub.Unsubscribe(action.GroupID, client)
		return
	}

	if err := h.router.Dispatch(ctx, client.UserID(), action); err != nil {
		slog.Warn("Action failed", "clientID", client.ID(), "userID", client.UserID(), "action", action.Type, "error", err)
		client.SendEvent(models.NewErrorEvent(errorCode(err), err.Error()))
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, poll.ErrInvalidPoll), errors.Is(err, chat.ErrInvalidMessage):
		return "INVALID_ARGUMENT"
	case errors.Is(err, poll.ErrPollNotFound):
		return "NOT_FOUND"
	case errors.Is(err, poll.ErrAlreadyVoted):
		return "CONFLICT"
	case errors.Is(err, router.ErrUnknownAction):
		return "INVALID_ARGUMENT"
	default:
		return "INTERNAL"
	}
}
