package models

import "time"

// Crawl session states as reported by the snapshot API.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// CrawlStatus tracks the state of one snapshot session.
type CrawlStatus struct {
	SessionID     string     `json:"session_id"`
	Seed          string     `json:"seed"`
	Mode          string     `json:"mode"`
	Status        string     `json:"status"`
	ItemsVisited  int        `json:"items_visited"`
	ImagesFetched int        `json:"images_fetched"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
