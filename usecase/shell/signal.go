package shell

import "sync"

// Phase is the resolution state of an asynchronous shell input.
type Phase int

const (
	PhasePending Phase = iota
	PhaseResolved
	// PhaseDegraded is a failed fetch presented through its default value.
	PhaseDegraded
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseResolved:
		return "resolved"
	case PhaseDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

type subscriber struct {
	id uint64
	fn func()
}

// signal is a single-writer value with a phase, a settle latch and change subscribers.
type signal[T any] struct {
	mu      sync.Mutex
	value   T
	phase   Phase
	closed  bool
	settled chan struct{}
	subs    []subscriber
	nextID  uint64
}

func newSignal[T any](initial T) *signal[T] {
	return &signal[T]{
		value:   initial,
		settled: make(chan struct{}),
	}
}

func (s *signal[T]) load() (T, Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.phase
}

// set stores v and notifies subscribers. Writes after close are dropped.
func (s *signal[T]) set(v T, phase Phase) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.value = v
	s.phase = phase
	if phase != PhasePending {
		s.settleLocked()
	}
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return true
}

// degrade settles a pending signal while keeping its current value.
// A signal that already settled keeps both its value and phase.
func (s *signal[T]) degrade() bool {
	s.mu.Lock()
	if s.closed || s.phase != PhasePending {
		s.mu.Unlock()
		return false
	}
	s.phase = PhaseDegraded
	s.settleLocked()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs)
	return true
}

func (s *signal[T]) subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// close drops every later write and releases waiters on the settle latch.
func (s *signal[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = nil
	s.settleLocked()
}

func (s *signal[T]) done() <-chan struct{} {
	return s.settled
}

func (s *signal[T]) settleLocked() {
	select {
	case <-s.settled:
	default:
		close(s.settled)
	}
}

func (s *signal[T]) subscribersLocked() []func() {
	out := make([]func(), len(s.subs))
	for i, sub := range s.subs {
		out[i] = sub.fn
	}
	return out
}

func notify(subs []func()) {
	for _, fn := range subs {
		fn()
	}
}
