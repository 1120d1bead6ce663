package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/gac-shell/domain"
)

func TestSessionProviderResolves(t *testing.T) {
	auth := &fakeAuth{user: &domain.User{ID: "u1", FullName: "Ana", Email: "ana@x.com"}}
	p := NewSessionProvider(auth)

	assert.Nil(t, p.User())
	assert.Equal(t, PhasePending, p.Phase())

	p.Fetch(context.Background())

	require.NotNil(t, p.User())
	assert.Equal(t, "Ana", p.User().FullName)
	assert.Equal(t, PhaseResolved, p.Phase())
	assert.Equal(t, int32(1), auth.calls.Load())
}

func TestSessionProviderFailureIsSilent(t *testing.T) {
	auth := &fakeAuth{err: errors.New("401")}
	p := NewSessionProvider(auth)

	p.Fetch(context.Background())

	assert.Nil(t, p.User())
	assert.Equal(t, PhaseDegraded, p.Phase())
	select {
	case <-p.Settled():
	default:
		t.Fatal("expected provider to settle after a failure")
	}
}

func TestSessionProviderSingleAttempt(t *testing.T) {
	auth := &fakeAuth{err: errors.New("boom")}
	p := NewSessionProvider(auth)

	p.Fetch(context.Background())
	auth.err = nil
	auth.user = &domain.User{ID: "late"}
	p.Fetch(context.Background())

	assert.Equal(t, int32(1), auth.calls.Load())
	assert.Nil(t, p.User())
}

func TestSessionProviderWithoutAuthenticator(t *testing.T) {
	p := NewSessionProvider(nil)
	p.Fetch(context.Background())
	assert.Equal(t, PhaseDegraded, p.Phase())
}

func TestEntityListProviderStartsEmpty(t *testing.T) {
	p := NewEntityListProvider(&fakeQuery{})

	snapshot := p.Snapshot()
	assert.NotNil(t, snapshot)
	assert.Empty(t, snapshot)
	assert.Equal(t, PhasePending, p.Phase())
	assert.Equal(t, 0, domain.CountPending(snapshot))
}

func TestEntityListProviderResolves(t *testing.T) {
	q := &fakeQuery{orders: workOrders(domain.StatusPendente, domain.StatusConcluida)}
	p := NewEntityListProvider(q)

	assert.True(t, p.Fetch(context.Background()))

	assert.Len(t, p.Snapshot(), 2)
	assert.Equal(t, PhaseResolved, p.Phase())
}

func TestEntityListProviderNilListBecomesEmpty(t *testing.T) {
	p := NewEntityListProvider(&fakeQuery{orders: nil})
	p.Fetch(context.Background())

	assert.NotNil(t, p.Snapshot())
	assert.Equal(t, PhaseResolved, p.Phase())
}

func TestEntityListProviderKeepsStaleSnapshotOnFailure(t *testing.T) {
	q := &fakeQuery{orders: workOrders(domain.StatusPendente, domain.StatusEmAndamento)}
	p := NewEntityListProvider(q)
	p.Fetch(context.Background())

	q.set(nil, errors.New("query failed"))
	p.Fetch(context.Background())

	assert.Len(t, p.Snapshot(), 2)
	assert.Equal(t, PhaseResolved, p.Phase())
	assert.Equal(t, int32(2), q.calls.Load())
}

func TestEntityListProviderFailureBeforeFirstResolution(t *testing.T) {
	p := NewEntityListProvider(&fakeQuery{err: errors.New("down")})
	p.Fetch(context.Background())

	assert.NotNil(t, p.Snapshot())
	assert.Empty(t, p.Snapshot())
	assert.Equal(t, PhaseDegraded, p.Phase())
}

func TestEntityListProviderFoldsOverlappingFetches(t *testing.T) {
	q := &fakeQuery{orders: workOrders(domain.StatusPendente), release: make(chan struct{})}
	p := NewEntityListProvider(q)

	done := make(chan bool)
	go func() { done <- p.Fetch(context.Background()) }()
	require.Eventually(t, func() bool { return q.calls.Load() == 1 }, time.Second, time.Millisecond)

	assert.False(t, p.Fetch(context.Background()))
	assert.False(t, p.Fetch(context.Background()))
	assert.Equal(t, int32(1), q.calls.Load(), "no second fetch while one is in flight")

	close(q.release)
	assert.True(t, <-done)
	assert.Equal(t, int32(2), q.calls.Load(), "overlapping calls rerun once")
	assert.Len(t, p.Snapshot(), 1)
}

func TestEntityListProviderInvalidationDuringFetchIsNotLost(t *testing.T) {
	base := &fakeQuery{orders: workOrders(domain.StatusPendente), release: make(chan struct{})}
	q := invalidatingQuery{base}
	p := NewEntityListProvider(q)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := p.Watch(ctx, q)
	defer stop()

	done := make(chan bool)
	go func() { done <- p.Fetch(ctx) }()
	require.Eventually(t, func() bool { return base.calls.Load() == 1 }, time.Second, time.Millisecond)

	base.set(workOrders(domain.StatusConcluida), nil)
	q.invalidate()

	close(base.release)
	<-done

	require.Eventually(t, func() bool {
		return p.Phase() == PhaseResolved && domain.CountPending(p.Snapshot()) == 0
	}, time.Second, time.Millisecond)
	assert.Equal(t, domain.StatusConcluida, p.Snapshot()[0].Status)
}

func TestEntityListProviderWatchRefetches(t *testing.T) {
	base := &fakeQuery{orders: workOrders(domain.StatusPendente)}
	q := invalidatingQuery{base}
	p := NewEntityListProvider(q)
	p.Fetch(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := p.Watch(ctx, q)
	defer stop()

	base.set(workOrders(domain.StatusPendente, domain.StatusPendente, domain.StatusEmAndamento), nil)
	q.invalidate()

	require.Eventually(t, func() bool {
		return domain.CountPending(p.Snapshot()) == 3
	}, time.Second, time.Millisecond)
}

func TestEntityListProviderWatchStops(t *testing.T) {
	base := &fakeQuery{orders: workOrders()}
	q := invalidatingQuery{base}
	p := NewEntityListProvider(q)

	stop := p.Watch(context.Background(), q)
	stop()
	stop()
	q.invalidate()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), base.calls.Load())
}
