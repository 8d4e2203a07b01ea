// Package snapshot serializes a finished crawl to disk.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"workitem-mirror/internal/models"
)

// Write serializes items to path as a single JSON array. A crawl that
// discovered nothing still writes a well-formed empty array. The file is
// replaced atomically, so a consumer never observes a partial snapshot.
func Write(path string, items []models.WorkItem) error {
	if items == nil {
		items = []models.WorkItem{}
	}
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir %s: %w", dir, err)
		}
	}
	return atomic.WriteFile(path, bytes.NewReader(payload))
}
