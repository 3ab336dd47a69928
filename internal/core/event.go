package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventHistory delivers the chat history to a client upon joining.
	EventHistory EventKind = iota
	// EventNewMessage notifies clients about a new chat message.
	EventNewMessage
	// EventUsersOnline delivers the full presence snapshot after a
	// join or leave.
	EventUsersOnline
	// EventUserTyping relays a typing indicator from another client.
	EventUserTyping
	// EventDataUpdated tells clients a shared collection changed and
	// should be re-fetched.
	EventDataUpdated
	// EventError notifies clients about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Message  ChatMessage
	Messages []ChatMessage // for EventHistory
	Users    []Identity    // for EventUsersOnline
	Typing   *TypingState  // for EventUserTyping
	Topic    Topic         // for EventDataUpdated
	Error    *CoreError
}

// TypingState relays who is typing. It is never stored server-side;
// each client infers the current typing set from the event stream.
type TypingState struct {
	User     Identity
	IsTyping bool
}
