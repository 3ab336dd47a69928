package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Hub coordinates the single shared chat room. It owns the connection
// registry and the message history and mutates them only from its run
// loop, so no locking is needed. Commands from all connections are
// funneled into one inbox; handler bodies run to completion before the
// next command is taken.
type Hub struct {
	registry *Registry
	history  *History
	clients  map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbox      chan inbound
	notifyCh   chan Topic

	lastMessageID int64
	log           zerolog.Logger
}

type inbound struct {
	client *Client
	cmd    *Command
}

// NewHub constructs a hub with the given history capacity.
func NewHub(historyLimit int, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		registry:   NewRegistry(),
		history:    NewHistory(historyLimit),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan inbound, 64),
		notifyCh:   make(chan Topic, 16),
		log:        logger.With().Str("component", "hub").Logger(),
	}
}

// RegisterClient adds a connection to the hub. The client starts
// receiving broadcasts immediately; it joins the chat roster only
// once it sends a join command.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient removes a connection. Always also removes its
// registry entry, so a dropped connection never lingers as a phantom
// online user. Safe to call for a client that never joined.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Notify broadcasts a change notification for a topic to every live
// connection. Fire-and-forget: callers invoke it after their database
// write commits and never wait on delivery.
func (h *Hub) Notify(topic Topic) {
	select {
	case h.notifyCh <- topic:
	default:
		h.log.Warn().Str("topic", string(topic)).Msg("notify queue full, dropping notification")
	}
}

// Run processes hub events until the context is canceled. All state
// mutation happens on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.clients[c.ID] = c
			go h.pump(ctx, c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case in := <-h.inbox:
			h.handleCommand(in.client, in.cmd)
		case topic := <-h.notifyCh:
			h.broadcast(&Event{Kind: EventDataUpdated, Topic: topic})
		case <-ctx.Done():
			return
		}
	}
}

// pump forwards one client's commands into the shared inbox,
// preserving per-connection ordering. It exits when the transport
// closes the command channel or the hub shuts down.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.inbox <- inbound{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	// A buffered command can arrive after its connection's unregister
	// has already been processed. It is unattributable; acting on it
	// would resurrect a dead connection in the registry.
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd.Identity)
	case CommandPostMessage:
		h.handlePostMessage(c, cmd.Content)
	case CommandSetTyping:
		h.handleSetTyping(c, cmd.IsTyping)
	}
}

func (h *Hub) handleJoin(c *Client, identity Identity) {
	h.registry.Join(c.ID, identity)

	h.send(c, &Event{Kind: EventHistory, Messages: h.history.All()})
	h.broadcast(&Event{Kind: EventUsersOnline, Users: h.registry.Snapshot()})

	h.log.Info().
		Str("conn_id", c.ID).
		Int64("user_id", identity.UserID).
		Int("online", h.registry.Len()).
		Msg("user joined chat")
}

func (h *Hub) handlePostMessage(c *Client, content string) {
	identity, ok := h.registry.Lookup(c.ID)
	if !ok {
		// Unattributable message; dropping is deliberate, not an error.
		h.log.Debug().Str("conn_id", c.ID).Msg("message from unjoined connection dropped")
		return
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	msg := ChatMessage{
		ID:        h.nextMessageID(),
		UserID:    identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Role:      identity.Role,
		Content:   content,
		Timestamp: time.Now(),
	}

	h.history.Append(msg)
	h.broadcast(&Event{Kind: EventNewMessage, Message: msg})
}

func (h *Hub) handleSetTyping(c *Client, isTyping bool) {
	identity, ok := h.registry.Lookup(c.ID)
	if !ok {
		return
	}

	ev := &Event{Kind: EventUserTyping, Typing: &TypingState{User: identity, IsTyping: isTyping}}
	for id, other := range h.clients {
		if id == c.ID {
			continue
		}
		h.send(other, ev)
	}
}

func (h *Hub) handleDisconnect(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)

	if _, joined := h.registry.Lookup(c.ID); joined {
		h.registry.Leave(c.ID)
		h.broadcast(&Event{Kind: EventUsersOnline, Users: h.registry.Snapshot()})
		h.log.Info().Str("conn_id", c.ID).Int("online", h.registry.Len()).Msg("user left chat")
	}
}

// broadcast delivers an event to every live connection. Delivery is
// best-effort per recipient; one slow or dead connection never blocks
// the others.
func (h *Hub) broadcast(ev *Event) {
	for _, c := range h.clients {
		h.send(c, ev)
	}
}

func (h *Hub) send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("conn_id", c.ID).Msg("event dropped for slow consumer")
	}
}

// nextMessageID returns a millisecond-timestamp ID, bumped when two
// messages land in the same millisecond so IDs stay strictly monotonic.
func (h *Hub) nextMessageID() int64 {
	id := time.Now().UnixMilli()
	if id <= h.lastMessageID {
		id = h.lastMessageID + 1
	}
	h.lastMessageID = id
	return id
}
