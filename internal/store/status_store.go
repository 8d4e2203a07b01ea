package store

import (
	"context"

	"workitem-mirror/internal/models"
)

// StatusStore persists snapshot session status.
type StatusStore interface {
	SetStatus(ctx context.Context, status models.CrawlStatus) error
	GetStatus(ctx context.Context, sessionID string) (models.CrawlStatus, bool, error)
}
