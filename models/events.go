package models

import "time"

// Activity is one session or talk within a congress programme.
type Activity struct {
	ID         string    `json:"id"`
	CongressID string    `json:"congress_id"`
	Title      string    `json:"title"`
	Speaker    string    `json:"speaker,omitempty"`
	Room       string    `json:"room,omitempty"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// EPoster is an archived poster presented at a congress, addressed by the
// storage path of its PDF. RenderedAt is set once the flipbook page images
// for the PDF have been pre-rendered into the object store.
type EPoster struct {
	ID         string     `json:"id"`
	CongressID string     `json:"congress_id"`
	Title      string     `json:"title"`
	Authors    string     `json:"authors"`
	PDFPath    string     `json:"pdf_path"`
	PageCount  int        `json:"page_count"`
	RenderedAt *time.Time `json:"rendered_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Webinar is an archived recorded session addressed by its video URL.
type Webinar struct {
	ID          string    `json:"id"`
	CongressID  string    `json:"congress_id"`
	Title       string    `json:"title"`
	Speaker     string    `json:"speaker,omitempty"`
	VideoURL    string    `json:"video_url"`
	Description string    `json:"description,omitempty"` // markdown
	RecordedAt  time.Time `json:"recorded_at"`
	CreatedAt   time.Time `json:"created_at"`
}
