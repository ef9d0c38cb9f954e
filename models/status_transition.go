package models

import "time"

// StatusTransition is an immutable audit record of one abstract status
// change: who moved it, when, and from/to which status. Rows are only ever
// appended, never updated.
type StatusTransition struct {
	ID         string         `json:"id"`
	AbstractID string         `json:"abstract_id"`
	FromStatus AbstractStatus `json:"from_status"`
	ToStatus   AbstractStatus `json:"to_status"`
	ActorID    string         `json:"actor_id"`
	Note       string         `json:"note,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
