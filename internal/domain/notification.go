package domain

// Notification is an outbound message to a user: a queue turn coming up,
// a pass about to expire, a receipt. Delivery (email, push) is decided by
// the notifier, not recorded here.
type Notification struct {
	UserID     string            `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
}
