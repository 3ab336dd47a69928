package core

// CommandKind describes what a connected client wants to do.
type CommandKind int

const (
	// CommandJoin registers the client's identity in the room.
	CommandJoin CommandKind = iota
	// CommandPostMessage posts a chat message to the room.
	CommandPostMessage
	// CommandSetTyping relays a typing indicator to other clients.
	CommandSetTyping
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Identity Identity // for CommandJoin
	Content  string   // for CommandPostMessage
	IsTyping bool     // for CommandSetTyping
}
