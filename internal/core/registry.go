package core

// Registry maps live connection IDs to the identity that joined on
// them. The same user may appear under several connection IDs (one
// per tab). Not safe for concurrent use; owned by the hub run loop.
type Registry struct {
	entries map[string]Identity
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Identity)}
}

// Join records or overwrites the identity for a connection.
func (r *Registry) Join(connID string, identity Identity) {
	r.entries[connID] = identity
}

// Leave removes the entry for a connection. Removing an unknown
// connection is a no-op.
func (r *Registry) Leave(connID string) {
	delete(r.entries, connID)
}

// Lookup returns the identity joined on a connection, if any.
func (r *Registry) Lookup(connID string) (Identity, bool) {
	identity, ok := r.entries[connID]
	return identity, ok
}

// Snapshot returns one identity per joined connection. Order is
// unspecified; callers must not rely on it.
func (r *Registry) Snapshot() []Identity {
	out := make([]Identity, 0, len(r.entries))
	for _, identity := range r.entries {
		out = append(out, identity)
	}
	return out
}

// Len returns the number of joined connections.
func (r *Registry) Len() int {
	return len(r.entries)
}
