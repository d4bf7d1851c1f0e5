package browse

import (
	"fmt"
	"sync"

	"github.com/kailas-cloud/apicat/internal/domain/search/order"
)

// Layout is how the listing is presented.
type Layout string

// Layout constants.
const (
	LayoutGrid Layout = "grid"
	LayoutList Layout = "list"
)

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	Authenticated bool       `json:"authenticated"`
	Sort          order.Spec `json:"sort"`
	Layout        Layout     `json:"layout"`
}

// Session holds per-user browsing state shared by controllers. Writes are
// serialized; listeners run after the write, outside the lock.
type Session struct {
	mu        sync.RWMutex
	state     Snapshot
	listeners map[int]func(prev, cur Snapshot)
	nextID    int
}

// NewSession starts a session in grid layout with no sort.
func NewSession(authenticated bool) *Session {
	return &Session{
		state:     Snapshot{Authenticated: authenticated, Layout: LayoutGrid},
		listeners: make(map[int]func(prev, cur Snapshot)),
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Authenticated reports whether the caller may reach the catalog.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Authenticated
}

// Sort returns the active sort spec.
func (s *Session) Sort() order.Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Sort
}

// Layout returns the active layout.
func (s *Session) Layout() Layout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Layout
}

// SetAuthenticated flips the authentication flag.
func (s *Session) SetAuthenticated(v bool) {
	s.update(func(st *Snapshot) { st.Authenticated = v })
}

// SetSort replaces the sort spec. The zero spec clears sorting.
func (s *Session) SetSort(spec order.Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	s.update(func(st *Snapshot) { st.Sort = spec })
	return nil
}

// SetLayout switches the layout.
func (s *Session) SetLayout(l Layout) error {
	if l != LayoutGrid && l != LayoutList {
		return fmt.Errorf("unknown layout %q", l)
	}
	s.update(func(st *Snapshot) { st.Layout = l })
	return nil
}

// Subscribe registers fn to run after every change. The returned func
// removes it.
func (s *Session) Subscribe(fn func(prev, cur Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) update(mutate func(*Snapshot)) {
	s.mu.Lock()
	prev := s.state
	mutate(&s.state)
	cur := s.state
	fns := make([]func(prev, cur Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if prev == cur {
		return
	}
	for _, fn := range fns {
		fn(prev, cur)
	}
}
