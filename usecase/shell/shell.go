package shell

import (
	"context"
	"sync"

	"github.com/fastygo/gac-shell/domain"
)

// MenuItem is a catalog entry with its highlight flag for the current route.
type MenuItem struct {
	Entry  domain.NavigationEntry `json:"entry"`
	Active bool                   `json:"active"`
}

// State is everything the shell renders, derived from its inputs on every change.
type State struct {
	ActiveRoute  string             `json:"active_route"`
	PendingCount int                `json:"pending_count"`
	Menu         []MenuItem         `json:"menu"`
	User         domain.DisplayUser `json:"user"`
	Collapsed    bool               `json:"collapsed"`
}

// ShowNotifications reports whether the notifications region and badge are rendered.
func (s State) ShowNotifications() bool {
	return s.PendingCount > 0
}

// ActiveEntry returns the highlighted menu entry, if any.
func (s State) ActiveEntry() (domain.NavigationEntry, bool) {
	for _, item := range s.Menu {
		if item.Active {
			return item.Entry, true
		}
	}
	return domain.NavigationEntry{}, false
}

// Compose reduces the shell inputs into a State. It has no side effects.
func Compose(catalog Catalog, currentPath string, user *domain.User, orders []domain.WorkOrder, collapsed bool) State {
	menu := make([]MenuItem, catalog.Len())
	for i := range menu {
		entry := catalog.At(i)
		menu[i] = MenuItem{Entry: entry, Active: entry.IsActive(currentPath)}
	}
	return State{
		ActiveRoute:  currentPath,
		PendingCount: domain.CountPending(orders),
		Menu:         menu,
		User:         domain.DisplayFor(user),
		Collapsed:    collapsed,
	}
}

// Shell combines the catalog, the current route and both providers into a State and
// republishes it to subscribers whenever one of them changes.
type Shell struct {
	catalog  Catalog
	session  *SessionProvider
	entities *EntityListProvider

	mu        sync.Mutex
	path      string
	collapsed bool
	mounted   bool
	cancel    context.CancelFunc
	stops     []func()
	subs      []stateSubscriber
	nextID    uint64
}

type stateSubscriber struct {
	id uint64
	fn func(State)
}

// New builds a shell for currentPath. The narrow-viewport sidebar starts collapsed.
func New(catalog Catalog, session *SessionProvider, entities *EntityListProvider, currentPath string) *Shell {
	if session == nil {
		session = NewSessionProvider(nil)
	}
	if entities == nil {
		entities = NewEntityListProvider(nil)
	}
	return &Shell{
		catalog:   catalog,
		session:   session,
		entities:  entities,
		path:      currentPath,
		collapsed: true,
	}
}

// Mount starts both fetches without waiting for them. Calling it twice has no effect.
func (s *Shell) Mount(ctx context.Context) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}
	s.mounted = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.stops = append(s.stops,
		s.session.subscribe(s.publish),
		s.entities.subscribe(s.publish),
	)
	if src, ok := s.entities.query.(InvalidationSource); ok {
		s.stops = append(s.stops, s.entities.Watch(ctx, src))
	}
	s.mu.Unlock()

	go s.session.Fetch(ctx)
	go s.entities.Fetch(ctx)
}

// Unmount tears the shell down. Fetches still in flight are cancelled and their
// results discarded.
func (s *Shell) Unmount() {
	s.mu.Lock()
	cancel := s.cancel
	stops := s.stops
	s.cancel = nil
	s.stops = nil
	s.subs = nil
	s.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	if cancel != nil {
		cancel()
	}
	s.session.discard()
	s.entities.discard()
}

// Settle waits until neither provider is pending or ctx is done. It reports whether
// both settled. Rendering does not need it; State is always valid.
func (s *Shell) Settle(ctx context.Context) bool {
	for _, ch := range []<-chan struct{}{s.session.Settled(), s.entities.Settled()} {
		select {
		case <-ch:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// Navigate moves the shell to a new route.
func (s *Shell) Navigate(path string) {
	s.mu.Lock()
	if s.path == path {
		s.mu.Unlock()
		return
	}
	s.path = path
	s.mu.Unlock()
	s.publish()
}

// ToggleCollapsed flips the narrow-viewport collapse flag and returns the new value.
func (s *Shell) ToggleCollapsed() bool {
	s.mu.Lock()
	s.collapsed = !s.collapsed
	collapsed := s.collapsed
	s.mu.Unlock()
	s.publish()
	return collapsed
}

// State composes the current inputs.
func (s *Shell) State() State {
	s.mu.Lock()
	path, collapsed := s.path, s.collapsed
	s.mu.Unlock()
	return Compose(s.catalog, path, s.session.User(), s.entities.Snapshot(), collapsed)
}

// SessionPhase and EntitiesPhase expose provider progress for instrumentation.
func (s *Shell) SessionPhase() Phase {
	return s.session.Phase()
}

func (s *Shell) EntitiesPhase() Phase {
	return s.entities.Phase()
}

// Subscribe registers fn to receive the recomposed State after every change.
func (s *Shell) Subscribe(fn func(State)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, stateSubscriber{id: id, fn: fn})
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

func (s *Shell) publish() {
	s.mu.Lock()
	subs := make([]func(State), len(s.subs))
	for i, sub := range s.subs {
		subs[i] = sub.fn
	}
	s.mu.Unlock()
	if len(subs) == 0 {
		return
	}

	state := s.State()
	for _, fn := range subs {
		fn(state)
	}
}

// Factory builds request-scoped shells sharing one catalog and one set of collaborators.
type Factory struct {
	catalog Catalog
	auth    Authenticator
	query   WorkOrderQuery
}

func NewFactory(catalog Catalog, auth Authenticator, query WorkOrderQuery) *Factory {
	return &Factory{catalog: catalog, auth: auth, query: query}
}

func (f *Factory) Catalog() Catalog {
	return f.catalog
}

// New returns an unmounted shell for currentPath.
func (f *Factory) New(currentPath string) *Shell {
	return New(f.catalog, NewSessionProvider(f.auth), NewEntityListProvider(f.query), currentPath)
}
