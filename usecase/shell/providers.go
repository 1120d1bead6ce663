package shell

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fastygo/gac-shell/domain"
)

// Authenticator resolves the user behind the current request.
type Authenticator interface {
	Me(ctx context.Context) (*domain.User, error)
}

// WorkOrderQuery lists the work orders visible to the console.
type WorkOrderQuery interface {
	List(ctx context.Context) ([]domain.WorkOrder, error)
}

// InvalidationSource is implemented by queries that announce when their data went stale.
type InvalidationSource interface {
	Subscribe(fn func()) (cancel func())
}

// SessionProvider resolves the current user once per shell lifetime.
type SessionProvider struct {
	auth Authenticator
	once sync.Once
	user *signal[*domain.User]
}

func NewSessionProvider(auth Authenticator) *SessionProvider {
	return &SessionProvider{
		auth: auth,
		user: newSignal[*domain.User](nil),
	}
}

// Fetch makes the single attempt to resolve the user. A failure leaves the user absent
// and is not reported to the caller. Calls after the first are no-ops.
func (p *SessionProvider) Fetch(ctx context.Context) {
	p.once.Do(func() {
		if p.auth == nil {
			p.user.degrade()
			return
		}
		user, err := p.auth.Me(ctx)
		if err != nil {
			p.user.degrade()
			return
		}
		p.user.set(user, PhaseResolved)
	})
}

// User returns the resolved user, or nil while pending or after a failure.
func (p *SessionProvider) User() *domain.User {
	user, _ := p.user.load()
	return user
}

func (p *SessionProvider) Phase() Phase {
	_, phase := p.user.load()
	return phase
}

// Settled is closed once the fetch has finished either way.
func (p *SessionProvider) Settled() <-chan struct{} {
	return p.user.done()
}

func (p *SessionProvider) subscribe(fn func()) func() {
	return p.user.subscribe(fn)
}

func (p *SessionProvider) discard() {
	p.user.close()
}

// EntityListProvider holds the latest work order snapshot. The snapshot starts as an
// empty list and keeps its last value when a refetch fails.
type EntityListProvider struct {
	query    WorkOrderQuery
	inflight atomic.Bool
	pending  atomic.Bool
	orders   *signal[[]domain.WorkOrder]
}

func NewEntityListProvider(query WorkOrderQuery) *EntityListProvider {
	return &EntityListProvider{
		query:  query,
		orders: newSignal([]domain.WorkOrder{}),
	}
}

// Fetch loads a new snapshot. Only one fetch runs at a time: a call made while another
// is in flight reports false and is folded into a single rerun once that fetch ends.
func (p *EntityListProvider) Fetch(ctx context.Context) bool {
	p.pending.Store(true)
	if !p.inflight.CompareAndSwap(false, true) {
		return false
	}
	for {
		for p.pending.Swap(false) {
			p.load(ctx)
		}
		p.inflight.Store(false)
		// A request that lost the race above is picked up here or by its own caller.
		if !p.pending.Load() || !p.inflight.CompareAndSwap(false, true) {
			return true
		}
	}
}

func (p *EntityListProvider) load(ctx context.Context) {
	if p.query == nil {
		p.orders.degrade()
		return
	}
	orders, err := p.query.List(ctx)
	if err != nil {
		p.orders.degrade()
		return
	}
	if orders == nil {
		orders = []domain.WorkOrder{}
	}
	p.orders.set(orders, PhaseResolved)
}

// Watch refetches on every invalidation announced by src until ctx ends or stop is called.
func (p *EntityListProvider) Watch(ctx context.Context, src InvalidationSource) (stop func()) {
	if src == nil {
		return func() {}
	}
	cancel := src.Subscribe(func() {
		if ctx.Err() != nil {
			return
		}
		go p.Fetch(ctx)
	})
	var once sync.Once
	return func() { once.Do(cancel) }
}

// Snapshot returns the current list; it is never nil. Callers must not modify it.
func (p *EntityListProvider) Snapshot() []domain.WorkOrder {
	orders, _ := p.orders.load()
	return orders
}

func (p *EntityListProvider) Phase() Phase {
	_, phase := p.orders.load()
	return phase
}

func (p *EntityListProvider) Settled() <-chan struct{} {
	return p.orders.done()
}

func (p *EntityListProvider) subscribe(fn func()) func() {
	return p.orders.subscribe(fn)
}

func (p *EntityListProvider) discard() {
	p.orders.close()
}
