package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"group-chat-service/internal/models"
)

// Hub routes group events to every subscribed client. Subscriber sets are
// created on first subscription and torn down when the last subscriber
// leaves; they have no persisted existence.
type Hub struct {
	mu     sync.RWMutex
	groups map[uint]map[*Client]struct{}

	// Optional cross-instance relay. When nil the hub is local-only.
	relay *Relay
}

func New(relay *Relay) *Hub {
	return &Hub{
		groups: make(map[uint]map[*Client]struct{}),
		relay:  relay,
	}
}

// Run starts the relay listener when a relay is configured. It returns
// when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.relay == nil {
		<-ctx.Done()
		return
	}
	h.relay.Listen(ctx, h.deliverLocal)
}

// Subscribe adds the client to the group's subscriber set. Subscribing an
// already-subscribed client is a no-op.
func (h *Hub) Subscribe(groupID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.groups[groupID]
	if !ok {
		set = make(map[*Client]struct{})
		h.groups[groupID] = set
	}
	if _, ok := set[c]; ok {
		return
	}
	set[c] = struct{}{}
	c.addGroup(groupID)
	slog.Debug("Client subscribed", "clientID", c.id, "userID", c.userID, "groupID", groupID)
}

// Unsubscribe removes the client from the group's subscriber set.
// Unsubscribing a client that is not present is a no-op.
func (h *Hub) Unsubscribe(groupID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(groupID, c)
}

func (h *Hub) unsubscribeLocked(groupID uint, c *Client) {
	set, ok := h.groups[groupID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.groups, groupID)
	}
	c.removeGroup(groupID)
	slog.Debug("Client unsubscribed", "clientID", c.id, "userID", c.userID, "groupID", groupID)
}

// Detach removes the client from every group and closes its connection.
// Called once when the client disconnects.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	for _, groupID := range c.groupIDs() {
		h.unsubscribeLocked(groupID, c)
	}
	h.mu.Unlock()

	c.close()
	slog.Info("Client detached", "clientID", c.id, "userID", c.userID)
}

// Publish delivers the event to every current subscriber of its group.
// Sequential calls for one group reach each subscriber in publish order.
// Delivery is best-effort: a failing subscriber is logged and skipped,
// never aborting delivery to the rest.
func (h *Hub) Publish(groupID uint, event models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "groupID", groupID, "type", event.Type, "error", err)
		return
	}

	h.deliverLocal(groupID, data)

	if h.relay != nil {
		if err := h.relay.Publish(context.Background(), groupID, data); err != nil {
			slog.Error("Failed to relay event", "groupID", groupID, "type", event.Type, "error", err)
		}
	}
}

func (h *Hub) deliverLocal(groupID uint, data []byte) {
	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.groups[groupID]))
	for c := range h.groups[groupID] {
		subscribers = append(subscribers, c)
	}
	h.mu.RUnlock()

	for _, c := range subscribers {
		if err := c.enqueue(data); err != nil {
			slog.Warn("Dropped event for client", "clientID", c.id, "userID", c.userID, "groupID", groupID, "error", err)
		}
	}
}

// SubscriberCount reports the current number of subscribers of a group.
func (h *Hub) SubscriberCount(groupID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}
