package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"workitem-mirror/internal/ado"
	"workitem-mirror/internal/assets"
	"workitem-mirror/internal/crawl"
	"workitem-mirror/internal/models"
	"workitem-mirror/internal/publish"
	"workitem-mirror/internal/snapshot"
	"workitem-mirror/internal/store"
)

// crawlLauncher runs one crawl session per accepted request, in the
// background, updating the status store as it goes. Each session writes
// its snapshot to <storageDir>/<sessionID>.json.
type crawlLauncher struct {
	client       *ado.Client
	store        store.StatusStore
	imageDir     string
	storageDir   string
	broker       string
	resultsTopic string
	rps          float64
	timeout      time.Duration
}

func (l *crawlLauncher) Start(status models.CrawlStatus) {
	atomic.AddUint64(&apiSessionsStarted, 1)
	go l.run(status)
}

func (l *crawlLauncher) run(status models.CrawlStatus) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	status.Status = models.StatusRunning
	l.setStatus(ctx, status)

	seeds, err := l.seeds(ctx, status.Seed)
	if err != nil {
		l.fail(ctx, status, fmt.Errorf("seed query: %w", err))
		return
	}

	policy, err := crawl.ParsePolicy(status.Mode)
	if err != nil {
		l.fail(ctx, status, err)
		return
	}

	assetStore, err := assets.NewStore(l.imageDir, l.client)
	if err != nil {
		l.fail(ctx, status, err)
		return
	}

	var sink crawl.ItemSink
	if l.broker != "" {
		producer := publish.NewProducer(l.broker, l.resultsTopic)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Printf("failed to close producer: %v", err)
			}
		}()
		sink = publish.NewSink(producer, status.SessionID)
	}

	crawler := crawl.NewCrawler(crawl.NewLoader(l.client, assetStore), crawl.NewLimiter(policy, l.rps), sink)

	log.Printf("session %s crawl start seeds=%d mode=%s", status.SessionID, len(seeds), policy)
	result, runErr := crawler.Run(ctx, seeds, policy)

	outPath := filepath.Join(l.storageDir, status.SessionID+".json")
	if err := snapshot.Write(outPath, result.Snapshot()); err != nil {
		l.fail(ctx, status, fmt.Errorf("snapshot write: %w", err))
		return
	}

	status.ItemsVisited = len(result.Order)
	status.ImagesFetched = imageCount(result)
	atomic.AddUint64(&apiItemsVisited, uint64(status.ItemsVisited))
	atomic.AddUint64(&apiImagesFetched, uint64(status.ImagesFetched))

	now := time.Now().UTC()
	status.CompletedAt = &now
	if runErr != nil {
		// Timed out or cancelled: the partial snapshot is on disk, the
		// session itself did not finish.
		status.Status = models.StatusFailed
		status.Error = runErr.Error()
		atomic.AddUint64(&apiSessionsFailed, 1)
	} else {
		status.Status = models.StatusCompleted
		atomic.AddUint64(&apiSessionsCompleted, 1)
	}
	// Use a fresh context: the session context may already be expired.
	l.setStatus(context.Background(), status)
	log.Printf("session %s crawl done status=%s items=%d images=%d path=%s",
		status.SessionID, status.Status, status.ItemsVisited, status.ImagesFetched, outPath)
}

// seeds resolves the session's seed descriptor ("id:123" or "query:GUID")
// into the initial id set.
func (l *crawlLauncher) seeds(ctx context.Context, seed string) ([]int, error) {
	if rest, ok := strings.CutPrefix(seed, "id:"); ok {
		id, err := strconv.Atoi(rest)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid seed id %q", rest)
		}
		return []int{id}, nil
	}
	return l.client.QueryIDs(ctx, strings.TrimPrefix(seed, "query:"))
}

func (l *crawlLauncher) fail(ctx context.Context, status models.CrawlStatus, err error) {
	atomic.AddUint64(&apiSessionsFailed, 1)
	log.Printf("session %s failed: %v", status.SessionID, err)
	now := time.Now().UTC()
	status.Status = models.StatusFailed
	status.Error = err.Error()
	status.CompletedAt = &now
	l.setStatus(ctx, status)
}

func (l *crawlLauncher) setStatus(ctx context.Context, status models.CrawlStatus) {
	if err := l.store.SetStatus(ctx, status); err != nil {
		log.Printf("session %s status update failed: %v", status.SessionID, err)
	}
}

func imageCount(result crawl.Result) int {
	count := 0
	for _, item := range result.Items {
		count += len(item.ImageFiles)
	}
	return count
}
