package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin    = "user-join"
	InboundTypeMessage = "chat-message"
	InboundTypeTyping  = "typing"

	EventChatHistory = "chat-history"
	EventNewMessage  = "new-message"
	EventUsersOnline = "users-online"
	EventUserTyping  = "user-typing"
	EventDataUpdated = "data-updated"
	EventError       = "error"
)

// JoinData carries the identity the client joins the chat room with.
type JoinData struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// MessageData is a chat message from the client.
type MessageData struct {
	Content string `json:"content"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// User mirrors core.Identity on the wire.
type User struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Message is a chat message as delivered to clients.
type Message struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// TypingEvent relays another user's typing state.
type TypingEvent struct {
	User     User `json:"user"`
	IsTyping bool `json:"isTyping"`
}

// DataUpdated tells the client a shared collection changed.
type DataUpdated struct {
	Type string `json:"type"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
