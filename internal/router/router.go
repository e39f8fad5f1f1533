package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"group-chat-service/internal/chat"
	"group-chat-service/internal/models"
	"group-chat-service/internal/poll"
)

var ErrUnknownAction = errors.New("unknown action type")

// Action is the transport-agnostic shape of an inbound client action.
// Content is decoded per action type.
type Action struct {
	Type    string          `json:"type"`
	GroupID uint            `json:"groupId"`
	Content json.RawMessage `json:"content"`
}

const (
	ActionMessage  = "message"
	ActionTyping   = "typing"
	ActionReaction = "reaction"
	ActionPoll     = "poll"
	ActionPollVote = "poll_vote"
)

// Broadcaster fans one event out to every subscriber of its group.
type Broadcaster interface {
	Publish(groupID uint, event models.Event)
}

// Archiver receives a copy of every published event, e.g. for the
// analytics pipeline. Failures are logged, never surfaced to the caller.
type Archiver interface {
	Archive(ctx context.Context, event models.Event) error
}

// Router validates inbound actions, delegates to the poll aggregate or
// the message log, and hands the resulting event to the broadcaster.
// When a delegate call fails nothing is broadcast; the error goes back
// to the originating caller only.
type Router struct {
	polls       *poll.Service
	messages    *chat.Service
	broadcaster Broadcaster
	archiver    Archiver // optional
}

func New(polls *poll.Service, messages *chat.Service, broadcaster Broadcaster, archiver Archiver) *Router {
	return &Router{
		polls:       polls,
		messages:    messages,
		broadcaster: broadcaster,
		archiver:    archiver,
	}
}

// Dispatch handles one inbound action on behalf of userID.
func (r *Router) Dispatch(ctx context.Context, userID uint, action Action) error {
	switch action.Type {
	case ActionMessage:
		return r.handleMessage(ctx, action)
	case ActionTyping:
		return r.handleTyping(ctx, action)
	case ActionReaction:
		return r.handleReaction(ctx, action)
	case ActionPoll:
		return r.handleCreatePoll(ctx, userID, action)
	case ActionPollVote:
		return r.handleVote(ctx, userID, action)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}
}

func (r *Router) handleMessage(ctx context.Context, action Action) error {
	var req models.SendMessageRequest
	if err := json.Unmarshal(action.Content, &req); err != nil {
		return fmt.Errorf("decode message action: %w", err)
	}

	msg, err := r.messages.Save(ctx, action.GroupID, &req)
	if err != nil {
		return err
	}

	r.publish(ctx, models.NewMessageEvent(msg))
	return nil
}

// handleTyping rebroadcasts the notification under the action's own type
// tag ("typing", "typing_stop", ...) without touching any store.
func (r *Router) handleTyping(ctx context.Context, action Action) error {
	var payload models.TypingPayload
	if err := json.Unmarshal(action.Content, &payload); err != nil {
		return fmt.Errorf("decode typing action: %w", err)
	}
	if payload.Type == "" {
		payload.Type = ActionTyping
	}
	payload.GroupID = action.GroupID

	r.publish(ctx, models.NewTypingEvent(payload))
	return nil
}

func (r *Router) handleReaction(ctx context.Context, action Action) error {
	var payload models.ReactionPayload
	if err := json.Unmarshal(action.Content, &payload); err != nil {
		return fmt.Errorf("decode reaction action: %w", err)
	}
	payload.GroupID = action.GroupID

	r.publish(ctx, models.NewReactionEvent(payload))
	return nil
}

func (r *Router) handleCreatePoll(ctx context.Context, userID uint, action Action) error {
	var req models.CreatePollRequest
	if err := json.Unmarshal(action.Content, &req); err != nil {
		return fmt.Errorf("decode poll action: %w", err)
	}
	req.GroupID = action.GroupID
	if req.CreatorID == 0 {
		req.CreatorID = userID
	}

	view, err := r.polls.Create(ctx, &req)
	if err != nil {
		return err
	}

	r.publish(ctx, models.NewPollEvent(view))
	return nil
}

func (r *Router) handleVote(ctx context.Context, userID uint, action Action) error {
	var req models.VoteRequest
	if err := json.Unmarshal(action.Content, &req); err != nil {
		return fmt.Errorf("decode vote action: %w", err)
	}
	req.UserID = userID

	view, err := r.polls.Vote(ctx, &req)
	if err != nil {
		return err
	}

	r.publish(ctx, models.NewPollVoteEvent(view))
	return nil
}

func (r *Router) publish(ctx context.Context, event models.Event) {
	r.broadcaster.Publish(event.GroupID, event)

	if r.archiver != nil {
		if err := r.archiver.Archive(ctx, event); err != nil {
			slog.Error("Failed to archive event", "groupID", event.GroupID, "type", event.Type, "error", err)
		}
	}
}
