package models

import "time"

// CongressState defines the lifecycle state of a Congress relative to its dates.
type CongressState string

const (
	CongressStateUpcoming CongressState = "upcoming"
	CongressStateActive   CongressState = "active"
	CongressStatePast     CongressState = "past"
)

// Congress is a top-level conference event with a date range, location,
// and a state derived from those dates.
type Congress struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Location    string        `json:"location"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	State       CongressState `json:"state"`
	Description string        `json:"description,omitempty"` // markdown
	ImageCount  int           `json:"image_count"`
	PosterPath  string        `json:"poster_path,omitempty"`
	ProgramPath string        `json:"program_path,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// StateAt derives the congress state from its date range at the given instant.
// The end date is inclusive: a congress is active through the whole final day.
func (c *Congress) StateAt(now time.Time) CongressState {
	if now.Before(c.StartDate) {
		return CongressStateUpcoming
	}
	if now.After(c.EndDate.Add(24 * time.Hour)) {
		return CongressStatePast
	}
	return CongressStateActive
}
