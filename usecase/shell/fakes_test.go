package shell

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fastygo/gac-shell/domain"
)

type fakeAuth struct {
	user    *domain.User
	err     error
	release chan struct{}
	calls   atomic.Int32
}

func (f *fakeAuth) Me(ctx context.Context) (*domain.User, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.user, f.err
}

type fakeQuery struct {
	mu      sync.Mutex
	orders  []domain.WorkOrder
	err     error
	release chan struct{}
	calls   atomic.Int32

	subsMu sync.Mutex
	subs   []func()
}

func (f *fakeQuery) List(ctx context.Context) ([]domain.WorkOrder, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders, f.err
}

func (f *fakeQuery) set(orders []domain.WorkOrder, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = orders
	f.err = err
}

type invalidatingQuery struct {
	*fakeQuery
}

func (q invalidatingQuery) Subscribe(fn func()) func() {
	q.subsMu.Lock()
	defer q.subsMu.Unlock()
	q.subs = append(q.subs, fn)
	idx := len(q.subs) - 1
	return func() {
		q.subsMu.Lock()
		defer q.subsMu.Unlock()
		q.subs[idx] = nil
	}
}

func (q invalidatingQuery) invalidate() {
	q.subsMu.Lock()
	subs := append([]func(){}, q.subs...)
	q.subsMu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn()
		}
	}
}

func workOrders(statuses ...domain.WorkOrderStatus) []domain.WorkOrder {
	out := make([]domain.WorkOrder, len(statuses))
	for i, s := range statuses {
		out[i] = domain.WorkOrder{ID: string(rune('a' + i)), Title: "OS", Status: s}
	}
	return out
}
