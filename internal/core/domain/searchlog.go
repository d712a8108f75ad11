package domain

import "time"

// SearchLogEntry records a submitted search.
type SearchLogEntry struct {
	ID          string    `json:"id"`
	Tags        []string  `json:"tags"`
	Query       string    `json:"query,omitempty"`
	URL         string    `json:"url"`
	SubmittedAt time.Time `json:"submitted_at"`
}
