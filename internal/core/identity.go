package core

// Identity holds the chat participant attributes trusted for the
// lifetime of a connection. Display names come from the join payload;
// UserID and Role are verified against the connection's token at the
// transport boundary.
type Identity struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}
