package models

// EventType identifies the kind of event broadcast to a group.
// Typing notifications carry their own subtype string taken verbatim
// from the inbound action, so they are not enumerated here.
type EventType string

const (
	EventTypeMessage  EventType = "message"
	EventTypeReaction EventType = "reaction"
	EventTypePoll     EventType = "poll"
	EventTypePollVote EventType = "poll_vote"
	EventTypeError    EventType = "error"
)

// String returns the string representation of the EventType
func (et EventType) String() string {
	return string(et)
}

// Event is the envelope delivered to every subscriber of a group.
// Content is always one of the typed payloads below, set by the
// constructors; subscribers never need to inspect it.
type Event struct {
	Type    EventType `json:"type"`
	GroupID uint      `json:"groupId"`
	Content any       `json:"content"`
}

// Typed payloads per event kind

type TypingPayload struct {
	Type     string `json:"type"` // e.g. "typing", "typing_stop"
	GroupID  uint   `json:"groupId"`
	UserID   uint   `json:"userId"`
	UserName string `json:"userName"`
}

type ReactionPayload struct {
	GroupID   uint   `json:"groupId"`
	MessageID uint   `json:"messageId"`
	UserID    uint   `json:"userId"`
	Emoji     string `json:"emoji"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Constructors

func NewMessageEvent(msg *ChatMessage) Event {
	return Event{Type: EventTypeMessage, GroupID: msg.GroupID, Content: msg}
}

// NewTypingEvent passes the action's own type tag through as the event type.
func NewTypingEvent(payload TypingPayload) Event {
	return Event{Type: EventType(payload.Type), GroupID: payload.GroupID, Content: payload}
}

func NewReactionEvent(payload ReactionPayload) Event {
	return Event{Type: EventTypeReaction, GroupID: payload.GroupID, Content: payload}
}

func NewPollEvent(view *PollView) Event {
	return Event{Type: EventTypePoll, GroupID: view.GroupID, Content: view}
}

func NewPollVoteEvent(view *PollView) Event {
	return Event{Type: EventTypePollVote, GroupID: view.GroupID, Content: view}
}

func NewErrorEvent(code, message string) Event {
	return Event{Type: EventTypeError, Content: ErrorPayload{Code: code, Message: message}}
}
