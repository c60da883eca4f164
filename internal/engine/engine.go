package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/dessertly/ordersync/internal/bulk"
	"github.com/dessertly/ordersync/internal/models"
	"github.com/dessertly/ordersync/internal/repositories"
)

// Engine owns the merged order timeline and is its only mutator. The list is
// replaced wholesale by each successful refresh, never patched field by
// field; overlapping refreshes are resolved by a monotonic counter so the
// last completed refresh wins.
type Engine struct {
	store  repositories.Store
	source *bulk.Source
	parser *bulk.Parser
	log    *logrus.Entry

	mu      sync.Mutex
	orders  []models.Order
	started uint64 // refreshes begun
	applied uint64 // last refresh whose result was installed
}

func New(store repositories.Store, source *bulk.Source, parser *bulk.Parser) *Engine {
	return &Engine{
		store:  store,
		source: source,
		parser: parser,
		log:    logrus.WithField("component", "engine"),
	}
}

// Refresh rebuilds the timeline: live-store orders first, bulk-file orders
// second, stable-sorted by timestamp descending. A live-store failure
// degrades to an empty live contribution; an unreadable bulk file is an
// initialization-class failure and is returned to the caller, distinct from
// an empty result. The bulk file is re-read on every call.
func (e *Engine) Refresh(ctx context.Context) ([]models.Order, error) {
	e.mu.Lock()
	e.started++
	seq := e.started
	e.mu.Unlock()

	live, err := e.readLive(ctx)
	if err != nil {
		e.log.WithError(err).Warn("live store unavailable, continuing with bulk orders only")
		live = nil
	}

	content, err := e.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	historical := e.parser.Parse(content)

	merged := Merge(live, historical)

	e.mu.Lock()
	if seq > e.applied {
		e.orders = merged
		e.applied = seq
	}
	e.mu.Unlock()

	return merged, nil
}

// Orders returns a snapshot of the last installed timeline.
func (e *Engine) Orders() []models.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.Order, len(e.orders))
	copy(out, e.orders)
	return out
}

// Merge combines the two contributions into the single list the rest of the
// system treats as ground truth: live orders first, then bulk orders,
// deduplicated by persistence id, stable-sorted newest first. Ties keep the
// concatenation order.
func Merge(live, historical []models.Order) []models.Order {
	merged := make([]models.Order, 0, len(live)+len(historical))
	seen := make(map[string]struct{}, len(live)+len(historical))
	for _, order := range append(append([]models.Order{}, live...), historical...) {
		if _, dup := seen[order.DBID]; dup {
			continue
		}
		seen[order.DBID] = struct{}{}
		merged = append(merged, order)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	return merged
}
