package domain

import "time"

// QueueEntry is one user waiting for one spot. A user holds at most one
// entry per spot. Notified flips to true when the user is told the spot
// is free; the entry stays in the queue until it is popped or the user
// leaves.
type QueueEntry struct {
	UserID         string     `json:"user_id"`
	SpotID         string     `json:"spot_id"`
	QueueTimestamp time.Time  `json:"queue_timestamp"`
	Notified       bool       `json:"notified"`
	NotifiedAt     *time.Time `json:"notified_at,omitempty"`
}

// QueuePosition reports where a user stands in one spot's queue.
// Position is 1-based.
type QueuePosition struct {
	SpotID   string `json:"spot_id"`
	Position int    `json:"position"`
}
