package engagevoice

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// TokenListener is notified with the new bundle whenever the stored bundle changes
type TokenListener func(Bundle)

// tokenStore holds the current credential bundle of a Client
type tokenStore struct {
	mu        sync.RWMutex
	bundle    Bundle
	version   uint64 // bumped on every change
	listeners map[int]TokenListener
	order     []int
	nextID    int
	logger    zerolog.Logger

	// notifications are delivered one change at a time, in version order
	notifyMu   sync.Mutex
	notifyCond *sync.Cond
	notified   uint64
}

func newTokenStore(logger zerolog.Logger) *tokenStore {
	s := &tokenStore{
		listeners: make(map[int]TokenListener),
		logger:    logger,
	}
	s.notifyCond = sync.NewCond(&s.notifyMu)
	return s
}

// Get returns a copy of the stored bundle, or nil if none is stored
func (s *tokenStore) Get() Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bundle.Clone()
}

// Set replaces the stored bundle and notifies listeners if it changed.
// It reports whether a change happened. Listeners must not call Set.
func (s *tokenStore) Set(bundle Bundle) bool {
	next := bundle.Clone()

	s.mu.Lock()
	if reflect.DeepEqual(s.bundle, next) {
		s.mu.Unlock()
		return false
	}
	s.bundle = next
	s.version++
	version := s.version
	listeners := make([]TokenListener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	s.awaitTurn(version)
	defer s.finishTurn(version)

	s.logger.Debug().
		Int("listeners", len(listeners)).
		Bool("empty", next == nil).
		Msg("Engage Voice token changed")

	for _, l := range listeners {
		l(next.Clone())
	}
	return true
}

// awaitTurn blocks until every earlier change has been delivered
func (s *tokenStore) awaitTurn(version uint64) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for s.notified != version-1 {
		s.notifyCond.Wait()
	}
}

func (s *tokenStore) finishTurn(version uint64) {
	s.notifyMu.Lock()
	s.notified = version
	s.notifyMu.Unlock()
	s.notifyCond.Broadcast()
}

// Subscribe registers l and returns a function that removes it again
func (s *tokenStore) Subscribe(l TokenListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
