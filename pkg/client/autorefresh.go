package client

import (
	"encoding/json"
	"sync"

	"github.com/staffhub/staffhub-server/internal/proto"
)

// AutoRefresh invokes a refresh function whenever the server announces
// that a watched topic changed. The function can be swapped at any
// time; notifications always run the latest one, never a stale
// capture.
type AutoRefresh struct {
	mu   sync.Mutex
	fn   func()
	stop func()
}

// AutoRefresh subscribes to data-updated events for one topic. Call
// Stop when the watcher is no longer needed.
func (c *Client) AutoRefresh(topic string, refresh func()) *AutoRefresh {
	ar := &AutoRefresh{fn: refresh}
	ar.stop = c.Subscribe(proto.EventDataUpdated, func(data json.RawMessage) {
		var update proto.DataUpdated
		if err := json.Unmarshal(data, &update); err != nil {
			return
		}
		if update.Type != topic {
			return
		}
		ar.mu.Lock()
		fn := ar.fn
		ar.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
	return ar
}

// SetFunc replaces the refresh function for subsequent notifications.
func (a *AutoRefresh) SetFunc(refresh func()) {
	a.mu.Lock()
	a.fn = refresh
	a.mu.Unlock()
}

// Stop unsubscribes the watcher. Idempotent.
func (a *AutoRefresh) Stop() {
	a.stop()
}
