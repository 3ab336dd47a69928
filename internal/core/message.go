package core

import "time"

// ChatMessage is the domain model for a chat message. Immutable once
// stamped by the hub.
type ChatMessage struct {
	ID        int64
	UserID    int64
	FirstName string
	LastName  string
	Role      string
	Content   string
	Timestamp time.Time
}
