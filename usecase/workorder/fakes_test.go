package workorder

import (
	"context"
	"errors"
	"sync"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/repository"
)

var errOffline = errors.New("connection refused")

type fakeRepo struct {
	mu      sync.Mutex
	orders  map[string]domain.WorkOrder
	lists   int
	failAll error
	gate    chan struct{}
}

func newFakeRepo(orders ...domain.WorkOrder) *fakeRepo {
	r := &fakeRepo{orders: make(map[string]domain.WorkOrder)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeRepo) listCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists
}

func (r *fakeRepo) setFailure(err error) {
	r.mu.Lock()
	r.failAll = err
	r.mu.Unlock()
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrWorkOrderNotFound
	}
	return &o, nil
}

// List reads its rows before waiting on gate, like a query that started before a write.
func (r *fakeRepo) List(ctx context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, error) {
	r.mu.Lock()
	r.lists++
	gate := r.gate
	out := make([]domain.WorkOrder, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Status == "" || o.Status == filter.Status {
			out = append(out, o)
		}
	}
	r.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, order *domain.WorkOrder) (*domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	if _, ok := r.orders[order.ID]; ok {
		return nil, domain.NewError(domain.ErrCodeConflict, "work order already exists")
	}
	r.orders[order.ID] = *order
	cp := *order
	return &cp, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status domain.WorkOrderStatus) (*domain.WorkOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return nil, r.failAll
	}
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrWorkOrderNotFound
	}
	o.Status = status
	r.orders[id] = o
	return &o, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return r.failAll
	}
	if _, ok := r.orders[id]; !ok {
		return domain.ErrWorkOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

type fakeCache struct {
	mu          sync.Mutex
	orders      []domain.WorkOrder
	present     bool
	getErr      error
	gets        int
	invalidated int
}

func (c *fakeCache) Get(context.Context) ([]domain.WorkOrder, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	return c.orders, c.present, nil
}

func (c *fakeCache) Set(_ context.Context, orders []domain.WorkOrder) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = orders
	c.present = true
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orders = nil
	c.present = false
	c.invalidated++
	return nil
}

type fakeBuffer struct {
	mu   sync.Mutex
	ops  []string
	fail error
}

func (b *fakeBuffer) BufferWorkOrder(_ context.Context, operation string, _ *domain.WorkOrder) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return b.fail
	}
	b.ops = append(b.ops, operation)
	return nil
}

type countingInvalidator struct {
	mu    sync.Mutex
	count int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	return nil
}

func (c *countingInvalidator) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func order(id string, status domain.WorkOrderStatus) domain.WorkOrder {
	return domain.WorkOrder{ID: id, Title: "OS " + id, Status: status}
}
