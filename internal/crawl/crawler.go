// Package crawl discovers a closed, deduplicated set of work items by
// walking the relation graph outward from a seed set.
package crawl

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"workitem-mirror/internal/models"
)

// Policy selects how far a crawl expands beyond its seeds.
type Policy int

const (
	// PolicyClosure follows every parent/child/related edge at every depth
	// until the transitive closure of the seed set is exhausted.
	PolicyClosure Policy = iota
	// PolicyOneHop loads the seeds with full relation discovery and each of
	// their direct neighbors without it, then stops. Visits at most
	// |seeds| + |distinct seed neighbors| items.
	PolicyOneHop
)

func (p Policy) String() string {
	switch p {
	case PolicyClosure:
		return "closure"
	case PolicyOneHop:
		return "one-hop"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a mode string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "closure":
		return PolicyClosure, nil
	case "one-hop", "onehop":
		return PolicyOneHop, nil
	default:
		return PolicyClosure, fmt.Errorf("unknown crawl mode %q", s)
	}
}

// DefaultOneHopInterval paces one-hop crawls when no explicit rate is
// configured.
const DefaultOneHopInterval = 500 * time.Millisecond

// NewLimiter returns the pacing limiter for a crawl. An explicit rps wins;
// otherwise one-hop crawls default to one load per DefaultOneHopInterval
// and closure crawls run unthrottled.
func NewLimiter(policy Policy, rps float64) *rate.Limiter {
	if rps > 0 {
		return rate.NewLimiter(rate.Limit(rps), 1)
	}
	if policy == PolicyOneHop {
		return rate.NewLimiter(rate.Every(DefaultOneHopInterval), 1)
	}
	return nil
}

// ItemLoader materializes one record per id; it must absorb all per-item
// failure and always return a usable record.
type ItemLoader interface {
	Load(ctx context.Context, id int, expandRelations bool) models.WorkItem
}

// ItemSink receives each record right after it is recorded. Sink failures
// must not propagate into the crawl.
type ItemSink interface {
	Record(ctx context.Context, item models.WorkItem)
}

// Result is a finished (possibly interrupted) crawl: the visited map plus
// the discovery order of its keys.
type Result struct {
	Items  map[int]models.WorkItem
	Order  []int
	Policy Policy
}

// Snapshot returns the records ordered for serialization: discovery order
// for closure crawls, ascending id for one-hop crawls. The one-hop sort is
// a deliberate consistency guarantee for that mode.
func (r Result) Snapshot() []models.WorkItem {
	ids := make([]int, len(r.Order))
	copy(ids, r.Order)
	if r.Policy == PolicyOneHop {
		sort.Ints(ids)
	}
	items := make([]models.WorkItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, r.Items[id])
	}
	return items
}

// Crawler owns the visit frontier and the visited map and drains the
// frontier strictly FIFO. No item is prioritized over another by any
// property beyond insertion order.
type Crawler struct {
	loader  ItemLoader
	limiter *rate.Limiter // nil = unthrottled
	sink    ItemSink      // optional
}

// NewCrawler builds a crawler. limiter paces successive item loads (token
// bucket); sink, when non-nil, observes each recorded item.
func NewCrawler(loader ItemLoader, limiter *rate.Limiter, sink ItemSink) *Crawler {
	return &Crawler{loader: loader, limiter: limiter, sink: sink}
}

// entry is one pending frontier slot. expand carries the per-call relation
// discovery switch: one-hop neighbors are loaded with it off so their own
// neighbors never enter the frontier.
type entry struct {
	id     int
	expand bool
}

// Run drains the frontier breadth-first until it is empty. An id is
// recorded exactly once no matter how many edges point at it, and a failed
// load never halts the crawl. On context cancellation Run returns what was
// recorded so far together with ctx.Err(), so a partial snapshot can still
// be written.
func (c *Crawler) Run(ctx context.Context, seeds []int, policy Policy) (Result, error) {
	result := Result{Items: make(map[int]models.WorkItem), Policy: policy}

	// queued doubles as the "already pending or visited" filter: ids are
	// never removed, so an id re-discovered over another edge is dropped at
	// insertion instead of growing the frontier.
	queued := make(map[int]bool, len(seeds))
	var frontier []entry
	for _, id := range seeds {
		if id <= 0 || queued[id] {
			continue
		}
		queued[id] = true
		frontier = append(frontier, entry{id: id, expand: true})
	}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		next := frontier[0]
		frontier = frontier[1:]
		if _, visited := result.Items[next.id]; visited {
			continue
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		item := c.loader.Load(ctx, next.id, next.expand)
		result.Items[next.id] = item
		result.Order = append(result.Order, next.id)
		if c.sink != nil {
			c.sink.Record(ctx, item)
		}

		if !next.expand {
			continue
		}
		expandNeighbors := policy == PolicyClosure
		for _, id := range neighbors(item) {
			if queued[id] {
				continue
			}
			queued[id] = true
			frontier = append(frontier, entry{id: id, expand: expandNeighbors})
		}
	}

	return result, nil
}

// neighbors lists every id the item references: parents, then children,
// then related items.
func neighbors(item models.WorkItem) []int {
	ids := make([]int, 0, len(item.ParentItems)+len(item.ChildItems)+len(item.RelatedItems))
	ids = append(ids, item.ParentItems...)
	ids = append(ids, item.ChildItems...)
	ids = append(ids, item.RelatedItems...)
	return ids
}
