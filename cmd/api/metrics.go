package main

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// Counters for snapshot session activity exposed on /metrics.
// started: sessions accepted; completed/failed: terminal outcome;
// items/images: totals across all sessions since process start.
var (
	apiSessionsStarted   uint64
	apiSessionsCompleted uint64
	apiSessionsFailed    uint64
	apiItemsVisited      uint64
	apiImagesFetched     uint64
)

// handleMetrics exposes a minimal Prometheus-compatible endpoint.
//
// Method: GET
// Path:   /metrics
// Example:
//
//	curl "http://localhost:8080/metrics"
func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	body := fmt.Sprintf(
		"workitem_mirror_api_up 1\n"+
			"workitem_mirror_sessions_started_total %d\n"+
			"workitem_mirror_sessions_completed_total %d\n"+
			"workitem_mirror_sessions_failed_total %d\n"+
			"workitem_mirror_items_visited_total %d\n"+
			"workitem_mirror_images_fetched_total %d\n",
		atomic.LoadUint64(&apiSessionsStarted),
		atomic.LoadUint64(&apiSessionsCompleted),
		atomic.LoadUint64(&apiSessionsFailed),
		atomic.LoadUint64(&apiItemsVisited),
		atomic.LoadUint64(&apiImagesFetched),
	)
	_, _ = w.Write([]byte(body))
}
