package store

import "sync"

// Listener receives a snapshot of the store. It runs synchronously and must
// not call Subscribe, Refresh or any write of the same store; the getters
// are fine.
type Listener func(State)

type subscription struct {
	id uint64
	fn Listener
}

type subscribers struct {
	// notifyMu orders deliveries, a listener never sees an older state
	// after a newer one.
	notifyMu sync.Mutex

	subMu  sync.Mutex
	subs   []subscription
	nextID uint64
}

// Subscribe registers fn and calls it right away with the current state,
// then again after each refresh. The returned func removes fn; calling it
// more than once is a no-op.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	fn(s.State())

	return func() { s.unsubscribe(id) }
}

func (s *subscribers) unsubscribe(id uint64) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

func (s *subscribers) listeners() []Listener {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	res := make([]Listener, len(s.subs))
	for i, sub := range s.subs {
		res[i] = sub.fn
	}
	return res
}

func (s *subscribers) notify(snapshot func() State) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	for _, fn := range s.listeners() {
		fn(snapshot())
	}
}
