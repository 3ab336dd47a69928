package core

import "testing"

func TestRegistryJoinLeaveSnapshot(t *testing.T) {
	r := NewRegistry()

	r.Join("c1", Identity{UserID: 1, FirstName: "Alice"})
	r.Join("c2", Identity{UserID: 2, FirstName: "Bob"})

	if r.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", r.Len())
	}

	r.Leave("c1")
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry after leave, got %d", r.Len())
	}

	snap := r.Snapshot()
	if len(snap) != 1 || snap[0].UserID != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestRegistryLeaveUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", Identity{UserID: 1})

	r.Leave("never-joined")
	r.Leave("c1")
	r.Leave("c1") // already left

	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d entries", r.Len())
	}
}

func TestRegistryAllowsSameUserOnManyConnections(t *testing.T) {
	r := NewRegistry()
	alice := Identity{UserID: 1, FirstName: "Alice"}

	r.Join("tab1", alice)
	r.Join("tab2", alice)

	if r.Len() != 2 {
		t.Fatalf("expected one entry per connection, got %d", r.Len())
	}
	for _, id := range r.Snapshot() {
		if id.UserID != 1 {
			t.Fatalf("unexpected identity in snapshot: %+v", id)
		}
	}
}

func TestRegistryJoinOverwritesExistingConnection(t *testing.T) {
	r := NewRegistry()
	r.Join("c1", Identity{UserID: 1, FirstName: "Alice"})
	r.Join("c1", Identity{UserID: 1, FirstName: "Alicia"})

	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
	identity, ok := r.Lookup("c1")
	if !ok || identity.FirstName != "Alicia" {
		t.Fatalf("expected overwritten identity, got %+v", identity)
	}
}
