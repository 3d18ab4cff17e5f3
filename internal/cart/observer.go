package cart

import "sync"

// Observer receives the new aggregate snapshot after every successful
// mutation of the named session's cart.
type Observer func(sessionID string, snapshot Cart)

type observerRegistry struct {
	mu   sync.Mutex
	subs map[int]Observer
	next int
}

func newObserverRegistry() *observerRegistry {
	return &observerRegistry{subs: map[int]Observer{}}
}

func (r *observerRegistry) subscribe(obs Observer) func() {
	if obs == nil {
		return func() {}
	}
	r.mu.Lock()
	id := r.next
	r.next++
	r.subs[id] = obs
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// publish fans out synchronously so observers always see mutations in the
// order they were applied.
func (r *observerRegistry) publish(sessionID string, snapshot Cart) {
	r.mu.Lock()
	observers := make([]Observer, 0, len(r.subs))
	for _, obs := range r.subs {
		observers = append(observers, obs)
	}
	r.mu.Unlock()

	for _, obs := range observers {
		obs(sessionID, snapshot)
	}
}
