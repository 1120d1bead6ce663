package workorder

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/internal/metrics"
	"github.com/fastygo/gac-shell/repository"
)

const (
	sourceMemory   = "memory"
	sourceRedis    = "redis"
	sourcePostgres = "postgres"

	listFlightKey = "work-orders"

	// loadTimeout bounds a shared load, which outlives the caller that started it.
	loadTimeout = 10 * time.Second
)

// Query serves the full work order list through three layers:
// memory (stale time) -> shared Redis list cache -> Postgres.
// Concurrent misses share a single load.
type Query struct {
	repo      repository.WorkOrderRepository
	cache     repository.WorkOrderListCache
	clock     clockwork.Clock
	staleTime time.Duration
	logger    *zap.Logger
	flight    singleflight.Group

	mu         sync.RWMutex
	snapshot   []domain.WorkOrder
	fetchedAt  time.Time
	cached     bool
	generation uint64

	subMu   sync.Mutex
	subs    map[uint64]func()
	nextSub uint64
}

// NewQuery builds the list query. cache may be nil when Redis is not configured.
func NewQuery(repo repository.WorkOrderRepository, cache repository.WorkOrderListCache, clock clockwork.Clock, staleTime time.Duration, logger *zap.Logger) *Query {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Query{
		repo:      repo,
		cache:     cache,
		clock:     clock,
		staleTime: staleTime,
		logger:    logger,
		subs:      make(map[uint64]func()),
	}
}

// List returns a copy of the current work order list.
func (q *Query) List(ctx context.Context) ([]domain.WorkOrder, error) {
	if orders, ok := q.fresh(); ok {
		metrics.WorkOrderQueryLoads.WithLabelValues(sourceMemory).Inc()
		return orders, nil
	}

	ch := q.flight.DoChan(listFlightKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return q.load(loadCtx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]domain.WorkOrder)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops both cache layers and tells subscribers to refetch. A load already
// in flight is detached so later callers start a fresh one.
func (q *Query) Invalidate(ctx context.Context) error {
	q.mu.Lock()
	q.snapshot = nil
	q.cached = false
	q.generation++
	q.flight.Forget(listFlightKey)
	q.mu.Unlock()

	metrics.WorkOrderQueryInvalidations.Inc()

	var err error
	if q.cache != nil {
		if err = q.cache.Invalidate(ctx); err != nil {
			q.logger.Warn("failed to invalidate work order list cache", zap.Error(err))
		}
	}
	q.notify()
	return err
}

// Subscribe registers fn to run after every invalidation. The returned func removes it.
func (q *Query) Subscribe(fn func()) func() {
	q.subMu.Lock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = fn
	q.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			q.subMu.Lock()
			delete(q.subs, id)
			q.subMu.Unlock()
		})
	}
}

func (q *Query) fresh() ([]domain.WorkOrder, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.cached {
		return nil, false
	}
	if q.staleTime > 0 && q.clock.Since(q.fetchedAt) >= q.staleTime {
		return nil, false
	}
	return clone(q.snapshot), true
}

func (q *Query) load(ctx context.Context) ([]domain.WorkOrder, error) {
	q.mu.RLock()
	gen := q.generation
	q.mu.RUnlock()

	if q.cache != nil {
		orders, ok, err := q.cache.Get(ctx)
		switch {
		case err != nil:
			q.logger.Warn("work order list cache read failed, falling through to postgres", zap.Error(err))
		case ok:
			metrics.WorkOrderQueryLoads.WithLabelValues(sourceRedis).Inc()
			q.remember(gen, orders)
			return orders, nil
		}
	}

	orders, err := q.repo.List(ctx, repository.WorkOrderFilter{})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.WorkOrder{}
	}
	metrics.WorkOrderQueryLoads.WithLabelValues(sourcePostgres).Inc()

	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.generation {
		return orders, nil
	}
	// Written under mu so an Invalidate cannot slip between the check and the Set.
	if q.cache != nil {
		if err := q.cache.Set(ctx, orders); err != nil {
			q.logger.Warn("failed to populate work order list cache", zap.Error(err))
		}
	}
	q.storeLocked(orders)
	return orders, nil
}

// remember keeps orders unless an invalidation happened while they were loading.
func (q *Query) remember(gen uint64, orders []domain.WorkOrder) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.generation {
		return
	}
	q.storeLocked(orders)
}

func (q *Query) storeLocked(orders []domain.WorkOrder) {
	q.snapshot = clone(orders)
	q.fetchedAt = q.clock.Now()
	q.cached = true
}

func (q *Query) notify() {
	q.subMu.Lock()
	fns := make([]func(), 0, len(q.subs))
	for _, fn := range q.subs {
		fns = append(fns, fn)
	}
	q.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func clone(orders []domain.WorkOrder) []domain.WorkOrder {
	out := make([]domain.WorkOrder, len(orders))
	copy(out, orders)
	return out
}
