package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"workitem-mirror/common"
	"workitem-mirror/internal/ado"
	"workitem-mirror/internal/assets"
	"workitem-mirror/internal/crawl"
	"workitem-mirror/internal/publish"
	"workitem-mirror/internal/snapshot"
)

func main() {
	seedID := flag.Int("id", 0, "seed work item id (takes precedence over -query)")
	queryID := flag.String("query", common.GetEnv("QUERY_ID", ""), "saved query id supplying the seed set")
	mode := flag.String("mode", "closure", "traversal mode: closure or one-hop")
	outPath := flag.String("out", common.GetEnv("SNAPSHOT_PATH", "storage/workitem_details.json"), "snapshot output path")
	flag.Parse()

	orgURL := common.GetEnv("ADO_ORG_URL", "")
	project := common.GetEnv("ADO_PROJECT", "")
	pat := common.GetEnv("ADO_PAT", "")
	imageDir := common.GetEnv("IMAGE_DIR", "images")
	retryMax := common.ParseInt(common.GetEnv("RETRY_MAX", "0"), 0)
	retryBase := common.ParseDuration(common.GetEnv("RETRY_BASE_DELAY", "200ms"), 200*time.Millisecond)
	retryMaxDelay := common.ParseDuration(common.GetEnv("RETRY_MAX_DELAY", "2s"), 2*time.Second)
	rps := common.ParseFloat(common.GetEnv("RATE_LIMIT_RPS", ""), 0)
	broker := common.GetEnv("KAFKA_BROKER", "")
	resultsTopic := common.GetEnv("KAFKA_RESULTS_TOPIC", "workitem.crawl.results")

	if orgURL == "" || project == "" {
		log.Fatal("ADO_ORG_URL and ADO_PROJECT must be set")
	}
	policy, err := crawl.ParsePolicy(strings.TrimSpace(*mode))
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := ado.NewClient(orgURL, project, pat, ado.WithRetry(retryMax, retryBase, retryMaxDelay))

	seeds, err := resolveSeeds(ctx, client, *seedID, strings.TrimSpace(*queryID))
	if err != nil {
		// Seed resolution is the one fatal failure class: with no seeds
		// there is nothing to crawl.
		log.Fatalf("seed query failed: %v", err)
	}
	if len(seeds) == 0 {
		if err := snapshot.Write(*outPath, nil); err != nil {
			log.Fatalf("snapshot write failed: %v", err)
		}
		log.Printf("seed query matched no items; wrote empty snapshot to %s", *outPath)
		return
	}

	assetStore, err := assets.NewStore(imageDir, client)
	if err != nil {
		log.Fatalf("asset store: %v", err)
	}

	var sink crawl.ItemSink
	if broker != "" {
		producer := publish.NewProducer(broker, resultsTopic)
		defer func() {
			if err := producer.Close(); err != nil {
				log.Printf("failed to close producer: %v", err)
			}
		}()
		sessionID := time.Now().UTC().Format("20060102150405")
		sink = publish.NewSink(producer, sessionID)
		log.Printf("publishing results to broker=%s topic=%s session=%s", broker, resultsTopic, sessionID)
	}

	crawler := crawl.NewCrawler(crawl.NewLoader(client, assetStore), crawl.NewLimiter(policy, rps), sink)

	start := time.Now()
	log.Printf("crawl start seeds=%d mode=%s", len(seeds), policy)
	result, runErr := crawler.Run(ctx, seeds, policy)
	if runErr != nil {
		log.Printf("crawl interrupted: %v (writing partial snapshot)", runErr)
	}

	if err := snapshot.Write(*outPath, result.Snapshot()); err != nil {
		log.Fatalf("snapshot write failed: %v", err)
	}
	log.Printf("crawl done items=%d mode=%s path=%s elapsed=%s",
		len(result.Order), policy, *outPath, time.Since(start).Round(time.Millisecond))
}

// resolveSeeds picks the seed set: an explicit id wins, otherwise the saved
// query is executed. A missing id and query is an operator error.
func resolveSeeds(ctx context.Context, client *ado.Client, seedID int, queryID string) ([]int, error) {
	if seedID > 0 {
		return []int{seedID}, nil
	}
	if queryID == "" {
		log.Fatal("provide -id or -query (or set QUERY_ID)")
	}
	return client.QueryIDs(ctx, queryID)
}
