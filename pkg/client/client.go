// Package client implements the portal's browser-side connection logic
// for Go programs: one persistent WebSocket per client with bounded
// reconnection, named event subscriptions, and auto-refresh hooks that
// fire when shared server-side collections change.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/staffhub/staffhub-server/internal/proto"
)

// State is the connection lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrClosed is returned from Run after an explicit Close.
var ErrClosed = errors.New("client closed")

// Config holds client connection settings.
type Config struct {
	// URL is the WebSocket endpoint, e.g. "ws://host:8080/ws".
	URL string
	// Token authenticates the connection; sent as a query parameter.
	Token string
	// Identity is emitted as the join payload on every (re)connect.
	Identity Identity
	// ReconnectAttempts bounds consecutive failed dials before Run
	// gives up. Defaults to 5.
	ReconnectAttempts int
	// ReconnectDelay is the pause between dial attempts. Defaults to 1s.
	ReconnectDelay time.Duration
	// Logger is optional.
	Logger *zerolog.Logger
}

// Identity mirrors the chat join payload.
type Identity struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Handler receives the raw data payload of a subscribed event.
// Handlers run on the client's read goroutine; keep them short.
type Handler func(data json.RawMessage)

// Client maintains one connection to the portal server and dispatches
// incoming events to subscribers by event name.
type Client struct {
	cfg Config
	log zerolog.Logger

	mu      sync.Mutex
	state   State
	conn    *websocket.Conn
	subs    map[string]map[int]Handler
	nextSub int
	closed  chan struct{}

	writeMu sync.Mutex
}

// New constructs a client. Call Run to connect.
func New(cfg Config) *Client {
	if cfg.ReconnectAttempts <= 0 {
		cfg.ReconnectAttempts = 5
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = time.Second
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Client{
		cfg:    cfg,
		log:    logger,
		state:  StateDisconnected,
		subs:   make(map[string]map[int]Handler),
		closed: make(chan struct{}),
	}
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run connects and processes events until the context is canceled, the
// client is closed, or reconnection attempts are exhausted. Each
// successful connect re-emits the join payload and resets the attempt
// counter.
func (c *Client) Run(ctx context.Context) error {
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			c.setState(StateDisconnected)
			return ctx.Err()
		case <-c.closed:
			c.setState(StateClosed)
			return ErrClosed
		default:
		}

		c.setState(StateConnecting)
		conn, err := c.dial(ctx)
		if err != nil {
			attempts++
			c.setState(StateDisconnected)
			if attempts >= c.cfg.ReconnectAttempts {
				return fmt.Errorf("connect after %d attempts: %w", attempts, err)
			}
			c.log.Warn().Err(err).Int("attempt", attempts).Msg("dial failed, retrying")
			select {
			case <-time.After(c.cfg.ReconnectDelay):
			case <-ctx.Done():
				return ctx.Err()
			case <-c.closed:
				c.setState(StateClosed)
				return ErrClosed
			}
			continue
		}

		attempts = 0
		c.mu.Lock()
		c.conn = conn
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.Join(ctx); err != nil {
			c.log.Warn().Err(err).Msg("join failed")
		}

		err = c.readLoop(ctx, conn)
		conn.Close(websocket.StatusNormalClosure, "reconnecting")

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		c.setState(StateDisconnected)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-c.closed:
			c.setState(StateClosed)
			return ErrClosed
		default:
		}
		c.log.Warn().Err(err).Msg("connection lost, reconnecting")
	}
}

// Close permanently stops the client. Run returns ErrClosed.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.closed:
		return
	default:
	}
	close(c.closed)
	if c.conn != nil {
		c.conn.Close(websocket.StatusNormalClosure, "bye")
	}
}

// Subscribe registers a handler for a named event. The returned
// function removes the handler; calling it more than once is safe.
// Always unsubscribe when the owning component goes away so stale
// handlers never fire.
func (c *Client) Subscribe(event string, handler Handler) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	if c.subs[event] == nil {
		c.subs[event] = make(map[int]Handler)
	}
	c.subs[event][id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs[event], id)
		})
	}
}

// Join re-emits the join payload. Run calls it on every connect; it is
// exported for clients that change identity mid-session.
func (c *Client) Join(ctx context.Context) error {
	return c.send(ctx, proto.InboundTypeJoin, c.cfg.Identity)
}

// SendMessage posts a chat message.
func (c *Client) SendMessage(ctx context.Context, content string) error {
	return c.send(ctx, proto.InboundTypeMessage, proto.MessageData{Content: content})
}

// SetTyping signals the caller's typing state. Debounce is the
// caller's responsibility; every call produces one relay.
func (c *Client) SetTyping(ctx context.Context, isTyping bool) error {
	return c.send(ctx, proto.InboundTypeTyping, isTyping)
}

func (c *Client) send(ctx context.Context, msgType string, payload any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errors.New("not connected")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msgType, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: data})
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	url := c.cfg.URL
	if c.cfg.Token != "" {
		url += "?token=" + c.cfg.Token
	}
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, url, nil)
	return conn, err
}

// envelope mirrors proto.Outbound with the payload left raw so it can
// be handed to subscribers untouched.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error,omitempty"`
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var env envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			return err
		}
		c.dispatch(env)
	}
}

func (c *Client) dispatch(env envelope) {
	if env.Error != nil {
		c.log.Warn().Str("code", env.Error.Code).Str("msg", env.Error.Msg).Msg("server error")
	}

	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.subs[env.Event]))
	for _, h := range c.subs[env.Event] {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(env.Data)
	}
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	if c.state != StateClosed {
		c.state = s
	}
	c.mu.Unlock()
}
