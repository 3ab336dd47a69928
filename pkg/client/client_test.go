package client

import (
	"encoding/json"
	"testing"
)

func rawEnvelope(t *testing.T, event string, data any) envelope {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return envelope{Event: event, Data: raw}
}

func TestSubscribeAndDispatch(t *testing.T) {
	c := New(Config{URL: "ws://unused"})

	var got []string
	c.Subscribe("new-message", func(data json.RawMessage) {
		got = append(got, string(data))
	})

	c.dispatch(rawEnvelope(t, "new-message", map[string]string{"content": "hi"}))
	c.dispatch(rawEnvelope(t, "users-online", []string{}))

	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	c := New(Config{URL: "ws://unused"})

	calls := 0
	unsubscribe := c.Subscribe("new-message", func(json.RawMessage) { calls++ })

	c.dispatch(rawEnvelope(t, "new-message", nil))
	unsubscribe()
	unsubscribe() // safe to call twice
	c.dispatch(rawEnvelope(t, "new-message", nil))

	if calls != 1 {
		t.Fatalf("expected exactly 1 call, got %d", calls)
	}
}

func TestMultipleSubscribersSameEvent(t *testing.T) {
	c := New(Config{URL: "ws://unused"})

	a, b := 0, 0
	c.Subscribe("users-online", func(json.RawMessage) { a++ })
	unsubB := c.Subscribe("users-online", func(json.RawMessage) { b++ })

	c.dispatch(rawEnvelope(t, "users-online", nil))
	unsubB()
	c.dispatch(rawEnvelope(t, "users-online", nil))

	if a != 2 || b != 1 {
		t.Fatalf("expected a=2 b=1, got a=%d b=%d", a, b)
	}
}

func TestAutoRefreshFiltersByTopic(t *testing.T) {
	c := New(Config{URL: "ws://unused"})

	refreshed := 0
	c.AutoRefresh("assets", func() { refreshed++ })

	c.dispatch(rawEnvelope(t, "data-updated", map[string]string{"type": "assets"}))
	c.dispatch(rawEnvelope(t, "data-updated", map[string]string{"type": "grievances"}))
	c.dispatch(rawEnvelope(t, "data-updated", map[string]string{"type": "assets"}))

	if refreshed != 2 {
		t.Fatalf("expected 2 refreshes for topic assets, got %d", refreshed)
	}
}

func TestAutoRefreshInvokesLatestFunc(t *testing.T) {
	c := New(Config{URL: "ws://unused"})

	stale, fresh := 0, 0
	ar := c.AutoRefresh("assets", func() { stale++ })

	// The owning component re-renders and swaps in a new fetch
	// function before any notification arrives.
	ar.SetFunc(func() { fresh++ })

	c.dispatch(rawEnvelope(t, "data-updated", map[string]string{"type": "assets"}))

	if stale != 0 {
		t.Fatalf("stale refresh function invoked %d times", stale)
	}
	if fresh != 1 {
		t.Fatalf("expected latest refresh function invoked once, got %d", fresh)
	}
}

func TestAutoRefreshStop(t *testing.T) {
	c := New(Config{URL: "ws://unused"})

	refreshed := 0
	ar := c.AutoRefresh("assets", func() { refreshed++ })
	ar.Stop()

	c.dispatch(rawEnvelope(t, "data-updated", map[string]string{"type": "assets"}))

	if refreshed != 0 {
		t.Fatalf("expected no refresh after Stop, got %d", refreshed)
	}
}

func TestStateStringAndDefaults(t *testing.T) {
	c := New(Config{URL: "ws://unused"})

	if c.State() != StateDisconnected {
		t.Fatalf("expected initial state disconnected, got %s", c.State())
	}
	if c.cfg.ReconnectAttempts != 5 {
		t.Fatalf("expected default reconnect attempts 5, got %d", c.cfg.ReconnectAttempts)
	}
	if c.cfg.ReconnectDelay <= 0 {
		t.Fatalf("expected positive default reconnect delay")
	}
}
