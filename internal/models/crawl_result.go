package models

import "time"

// CrawlResult is the payload published to the results topic for each work
// item as it is recorded, so downstream consumers don't have to poll the
// snapshot file.
type CrawlResult struct {
	SessionID  string    `json:"session_id"`
	Item       WorkItem  `json:"item"`
	RecordedAt time.Time `json:"recorded_at"`
}
