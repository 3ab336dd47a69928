package core

// Client is one live connection as seen by the core layer. Commands
// flow from the transport into the hub; events flow back out. The
// events channel is buffered and the hub drops events for slow
// consumers rather than blocking the run loop.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 32),
	}
}
