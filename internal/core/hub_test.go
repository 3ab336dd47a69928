package core

import (
	"context"
	"strconv"
	"testing"
	"time"
)

func startTestHub(t *testing.T) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(0, nil)
	go hub.Run(ctx)
	return hub
}

func joinedClient(t *testing.T, hub *Hub, connID string, identity Identity) *Client {
	t.Helper()

	c := NewClient(connID)
	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandJoin, Identity: identity}
	mustEvent(t, c.Events, EventHistory)
	return c
}

func TestHubJoinDeliversHistoryAndPresence(t *testing.T) {
	hub := startTestHub(t)

	alice := NewClient("a")
	hub.RegisterClient(alice)
	alice.Commands <- &Command{Kind: CommandJoin, Identity: Identity{UserID: 1, FirstName: "Alice", LastName: "Hart", Role: "employee"}}

	hist := mustEvent(t, alice.Events, EventHistory)
	if len(hist.Messages) != 0 {
		t.Fatalf("expected empty history on fresh hub, got %d messages", len(hist.Messages))
	}

	online := mustEvent(t, alice.Events, EventUsersOnline)
	if len(online.Users) != 1 || online.Users[0].UserID != 1 {
		t.Fatalf("unexpected presence snapshot: %+v", online.Users)
	}
}

func TestHubMessageBroadcastToAll(t *testing.T) {
	hub := startTestHub(t)

	alice := joinedClient(t, hub, "a", Identity{UserID: 1, FirstName: "Alice", Role: "employee"})
	bob := joinedClient(t, hub, "b", Identity{UserID: 2, FirstName: "Bob", Role: "admin"})

	alice.Commands <- &Command{Kind: CommandPostMessage, Content: "hello"}

	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, EventNewMessage)
		if ev.Message.Content != "hello" || ev.Message.UserID != 1 {
			t.Fatalf("unexpected message event: %+v", ev.Message)
		}
		if ev.Message.ID == 0 || ev.Message.Timestamp.IsZero() {
			t.Fatalf("message not stamped: %+v", ev.Message)
		}
	}
}

func TestHubPresenceAfterTwoJoins(t *testing.T) {
	hub := startTestHub(t)

	alice := joinedClient(t, hub, "a", Identity{UserID: 1, FirstName: "Alice", Role: "employee"})
	joinedClient(t, hub, "b", Identity{UserID: 2, FirstName: "Bob", Role: "admin"})

	// Alice sees the second presence push once Bob joins.
	var online *Event
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev := mustEvent(t, alice.Events, EventUsersOnline)
		if len(ev.Users) == 2 {
			online = ev
			break
		}
	}
	if online == nil {
		t.Fatal("never saw presence snapshot with both users")
	}

	seen := map[int64]bool{}
	for _, u := range online.Users {
		seen[u.UserID] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("snapshot missing users: %+v", online.Users)
	}
}

func TestHubUnjoinedMessageDropped(t *testing.T) {
	hub := startTestHub(t)

	watcher := joinedClient(t, hub, "w", Identity{UserID: 9, FirstName: "Watcher"})

	stranger := NewClient("s")
	hub.RegisterClient(stranger)
	stranger.Commands <- &Command{Kind: CommandPostMessage, Content: "anonymous"}

	mustNoEvent(t, watcher.Events, EventNewMessage)
	mustNoEvent(t, stranger.Events, EventNewMessage)
}

func TestHubEmptyContentDropped(t *testing.T) {
	hub := startTestHub(t)

	alice := joinedClient(t, hub, "a", Identity{UserID: 1, FirstName: "Alice"})
	alice.Commands <- &Command{Kind: CommandPostMessage, Content: "   \t  "}

	mustNoEvent(t, alice.Events, EventNewMessage)
}

func TestHubTypingExcludesSender(t *testing.T) {
	hub := startTestHub(t)

	alice := joinedClient(t, hub, "a", Identity{UserID: 1, FirstName: "Alice"})
	bob := joinedClient(t, hub, "b", Identity{UserID: 2, FirstName: "Bob"})

	alice.Commands <- &Command{Kind: CommandSetTyping, IsTyping: true}

	ev := mustEvent(t, bob.Events, EventUserTyping)
	if ev.Typing == nil || ev.Typing.User.UserID != 1 || !ev.Typing.IsTyping {
		t.Fatalf("unexpected typing event: %+v", ev.Typing)
	}

	mustNoEvent(t, alice.Events, EventUserTyping)
}

func TestHubNotifyReachesAllClients(t *testing.T) {
	hub := startTestHub(t)

	alice := joinedClient(t, hub, "a", Identity{UserID: 1})
	bob := joinedClient(t, hub, "b", Identity{UserID: 2})

	hub.Notify(TopicAssets)

	for _, c := range []*Client{alice, bob} {
		ev := mustEvent(t, c.Events, EventDataUpdated)
		if ev.Topic != TopicAssets {
			t.Fatalf("unexpected topic: %s", ev.Topic)
		}
	}
}

func TestHubDisconnectRemovesFromPresence(t *testing.T) {
	hub := startTestHub(t)

	alice := joinedClient(t, hub, "a", Identity{UserID: 1})
	bob := joinedClient(t, hub, "b", Identity{UserID: 2})

	close(alice.Commands)
	hub.UnregisterClient(alice)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ev := mustEvent(t, bob.Events, EventUsersOnline)
		if len(ev.Users) == 1 && ev.Users[0].UserID == 2 {
			return
		}
	}
	t.Fatal("presence snapshot never shrank after disconnect")
}

func TestHubHistoryDeliveredToLateJoiner(t *testing.T) {
	hub := startTestHub(t)

	alice := joinedClient(t, hub, "a", Identity{UserID: 1, FirstName: "Alice", LastName: "Hart", Role: "employee"})
	before := time.Now()
	alice.Commands <- &Command{Kind: CommandPostMessage, Content: "for the record"}
	mustEvent(t, alice.Events, EventNewMessage)

	late := NewClient("late")
	hub.RegisterClient(late)
	late.Commands <- &Command{Kind: CommandJoin, Identity: Identity{UserID: 3, FirstName: "Carol"}}

	hist := mustEvent(t, late.Events, EventHistory)
	if len(hist.Messages) != 1 {
		t.Fatalf("expected 1 message in history, got %d", len(hist.Messages))
	}
	msg := hist.Messages[0]
	if msg.UserID != 1 || msg.FirstName != "Alice" || msg.LastName != "Hart" || msg.Role != "employee" || msg.Content != "for the record" {
		t.Fatalf("history message fields mangled: %+v", msg)
	}
	if msg.Timestamp.Before(before.Truncate(time.Millisecond)) {
		t.Fatalf("timestamp %v earlier than post time %v", msg.Timestamp, before)
	}
}

func TestHubDisconnectWithQueuedJoinLeavesNoPhantom(t *testing.T) {
	hub := startTestHub(t)

	// Queue a join and tear the connection down immediately, the way
	// the transport does. The unregister races the buffered join
	// through separate channels; whichever order the hub picks, the
	// dead connection must not linger in the registry.
	for i := 0; i < 200; i++ {
		c := NewClient("ghost" + strconv.Itoa(i))
		hub.RegisterClient(c)
		c.Commands <- &Command{Kind: CommandJoin, Identity: Identity{UserID: int64(i + 100), FirstName: "Ghost"}}
		close(c.Commands)
		hub.UnregisterClient(c)
	}

	observer := NewClient("obs")
	hub.RegisterClient(observer)
	observer.Commands <- &Command{Kind: CommandJoin, Identity: Identity{UserID: 1, FirstName: "Olive"}}

	timeout := time.After(2 * time.Second)
	lastSeen := -1
	for {
		select {
		case ev := <-observer.Events:
			if ev.Kind != EventUsersOnline {
				continue
			}
			lastSeen = len(ev.Users)
			if len(ev.Users) == 1 && ev.Users[0].UserID == 1 {
				return
			}
		case <-timeout:
			t.Fatalf("presence never settled to the observer alone, last snapshot had %d users", lastSeen)
		}
	}
}

func TestHubMessageIDsMonotonic(t *testing.T) {
	hub := startTestHub(t)

	alice := joinedClient(t, hub, "a", Identity{UserID: 1})

	const n = 10
	for i := 0; i < n; i++ {
		alice.Commands <- &Command{Kind: CommandPostMessage, Content: "x"}
	}

	var last int64
	for i := 0; i < n; i++ {
		ev := mustEvent(t, alice.Events, EventNewMessage)
		if ev.Message.ID <= last {
			t.Fatalf("ids not strictly increasing: %d after %d", ev.Message.ID, last)
		}
		last = ev.Message.ID
	}
}
