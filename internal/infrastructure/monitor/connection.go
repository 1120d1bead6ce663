package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Pinger is a dependency whose reachability is tracked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// BufferSizer reports how many writes wait in the offline buffer.
type BufferSizer interface {
	Size() (int, error)
}

type Dependencies struct {
	Postgres Pinger
	Redis    Pinger
	Buffer   BufferSizer
}

// Monitor polls the storage dependencies. Work order writes are considered online
// whenever Postgres answers; Redis is only a cache layer.
type Monitor struct {
	deps Dependencies

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	clock    clockwork.Clock
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(deps Dependencies, interval time.Duration, clock clockwork.Clock, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		deps:     deps,
		interval: interval,
		clock:    clock,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	m.Refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.PostgreSQL
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			m.Refresh()
		case <-m.stopCh:
			return
		}
	}
}

// Refresh probes every dependency once and records the result.
func (m *Monitor) Refresh() {
	bufferOK, bufferSize := m.checkBuffer()
	status := Status{
		PostgreSQL: m.ping(m.deps.Postgres, 3*time.Second),
		Redis:      m.ping(m.deps.Redis, 2*time.Second),
		Buffer:     bufferOK,
		BufferSize: bufferSize,
		LastCheck:  m.clock.Now(),
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if !previous.LastCheck.IsZero() && previous.PostgreSQL != status.PostgreSQL {
		m.logger.Warn("postgres reachability changed", zap.Bool("online", status.PostgreSQL))
	}
	if !previous.LastCheck.IsZero() && previous.Redis != status.Redis {
		m.logger.Warn("redis reachability changed", zap.Bool("online", status.Redis))
	}
}

func (m *Monitor) ping(p Pinger, timeout time.Duration) bool {
	if p == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.Ping(ctx) == nil
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.deps.Buffer == nil {
		return false, 0
	}
	size, err := m.deps.Buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
