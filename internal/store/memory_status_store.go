package store

import (
	"context"
	"sync"

	"workitem-mirror/internal/models"
)

// MemoryStatusStore keeps session status in process memory. It is the
// default when no Redis address is configured, and what tests use.
type MemoryStatusStore struct {
	mu       sync.RWMutex
	statuses map[string]models.CrawlStatus
}

// NewMemoryStatusStore returns an empty in-memory StatusStore.
func NewMemoryStatusStore() *MemoryStatusStore {
	return &MemoryStatusStore{statuses: make(map[string]models.CrawlStatus)}
}

// SetStatus stores or replaces the status record.
func (s *MemoryStatusStore) SetStatus(_ context.Context, status models.CrawlStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[status.SessionID] = status
	return nil
}

// GetStatus reads the status record; a missing session is not an error.
func (s *MemoryStatusStore) GetStatus(_ context.Context, sessionID string) (models.CrawlStatus, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.statuses[sessionID]
	return status, ok, nil
}
