package core

// DefaultHistoryLimit bounds the in-memory chat history. Chat is
// advisory, not an audit record, so the buffer is lost on restart.
const DefaultHistoryLimit = 100

// History is a bounded FIFO log of recent chat messages. Once at
// capacity, appending evicts the oldest entry. Not safe for concurrent
// use; the hub owns it and touches it only from its run loop.
type History struct {
	buf  []ChatMessage
	head int
	size int
}

// NewHistory constructs an empty history with the given capacity.
// Non-positive capacities fall back to DefaultHistoryLimit.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryLimit
	}
	return &History{buf: make([]ChatMessage, capacity)}
}

// Append adds a message to the tail, evicting the oldest entry when
// the buffer is full.
func (h *History) Append(msg ChatMessage) {
	tail := (h.head + h.size) % len(h.buf)
	h.buf[tail] = msg
	if h.size < len(h.buf) {
		h.size++
		return
	}
	h.head = (h.head + 1) % len(h.buf)
}

// All returns the buffered messages oldest-first. The returned slice
// is a copy and safe for callers to hold.
func (h *History) All() []ChatMessage {
	out := make([]ChatMessage, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.head+i)%len(h.buf)]
	}
	return out
}

// Len returns the number of buffered messages.
func (h *History) Len() int {
	return h.size
}
