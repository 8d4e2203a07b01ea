package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"workitem-mirror/common"
	"workitem-mirror/internal/ado"
	"workitem-mirror/internal/crawl"
	"workitem-mirror/internal/models"
	"workitem-mirror/internal/store"
)

// sessionRunner launches the crawl behind one accepted session.
type sessionRunner interface {
	Start(status models.CrawlStatus)
}

type server struct {
	store  store.StatusStore
	runner sessionRunner
}

func newServer(st store.StatusStore, runner sessionRunner) *server {
	return &server{
		store:  st,
		runner: runner,
	}
}

func main() {
	orgURL := common.GetEnv("ADO_ORG_URL", "")
	project := common.GetEnv("ADO_PROJECT", "")
	pat := common.GetEnv("ADO_PAT", "")
	imageDir := common.GetEnv("IMAGE_DIR", "images")
	storageDir := common.GetEnv("STORAGE_DIR", "storage")
	redisAddr := common.GetEnv("REDIS_ADDR", "")
	broker := common.GetEnv("KAFKA_BROKER", "")
	resultsTopic := common.GetEnv("KAFKA_RESULTS_TOPIC", "workitem.crawl.results")
	retryMax := common.ParseInt(common.GetEnv("RETRY_MAX", "0"), 0)
	retryBase := common.ParseDuration(common.GetEnv("RETRY_BASE_DELAY", "200ms"), 200*time.Millisecond)
	retryMaxDelay := common.ParseDuration(common.GetEnv("RETRY_MAX_DELAY", "2s"), 2*time.Second)
	rps := common.ParseFloat(common.GetEnv("RATE_LIMIT_RPS", ""), 0)
	sessionTimeout := common.ParseDuration(common.GetEnv("SESSION_TIMEOUT", "30m"), 30*time.Minute)
	addr := common.GetEnv("LISTEN_ADDR", ":8080")

	if orgURL == "" || project == "" {
		log.Fatal("ADO_ORG_URL and ADO_PROJECT must be set")
	}

	var statusStore store.StatusStore
	if redisAddr != "" {
		redisStore := store.NewRedisStatusStore(redisAddr, "snapshot:status:", 24*time.Hour)
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Printf("failed to close status store: %v", err)
			}
		}()
		statusStore = redisStore
	} else {
		statusStore = store.NewMemoryStatusStore()
	}

	client := ado.NewClient(orgURL, project, pat, ado.WithRetry(retryMax, retryBase, retryMaxDelay))
	launcher := &crawlLauncher{
		client:       client,
		store:        statusStore,
		imageDir:     imageDir,
		storageDir:   storageDir,
		broker:       broker,
		resultsTopic: resultsTopic,
		rps:          rps,
		timeout:      sessionTimeout,
	}

	srv := newServer(statusStore, launcher)

	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", srv.handleSnapshot)
	mux.HandleFunc("/snapshot/", srv.handleSnapshotStatus)
	mux.HandleFunc("/metrics", srv.handleMetrics)

	log.Printf("api listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

// handleSnapshot accepts POST requests to start a snapshot session.
//
// Method: POST
// Path:   /snapshot?id=...|query=...[&mode=closure|one-hop]
// Example:
//
//	curl -X POST "http://localhost:8080/snapshot?query=2f4e3a10-7b1d-4c55-9e21-0f8a5b6c7d8e&mode=one-hop"
func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if id == "" && query == "" {
		http.Error(w, "missing id or query", http.StatusBadRequest)
		return
	}

	mode := strings.TrimSpace(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = crawl.PolicyClosure.String()
	}
	policy, err := crawl.ParsePolicy(mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	seed := "query:" + query
	if id != "" {
		parsed, err := strconv.Atoi(id)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		seed = "id:" + id
	}

	status := models.CrawlStatus{
		SessionID: newSessionID(),
		Seed:      seed,
		Mode:      policy.String(),
		Status:    models.StatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.store.SetStatus(ctx, status); err != nil {
		http.Error(w, "failed to persist status", http.StatusBadGateway)
		return
	}

	s.runner.Start(status)
	writeJSON(w, status, http.StatusAccepted)
}

// handleSnapshotStatus returns status for a previously started session.
//
// Method: GET
// Path:   /snapshot/{sessionID}
// Example:
//
//	curl "http://localhost:8080/snapshot/20260119120000"
func (s *server) handleSnapshotStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/snapshot/"), "/")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	status, ok, err := s.store.GetStatus(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "failed to load status", http.StatusBadGateway)
		return
	}
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	writeJSON(w, status, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func newSessionID() string {
	return strings.ReplaceAll(time.Now().UTC().Format("20060102150405.000000000"), ".", "")
}
