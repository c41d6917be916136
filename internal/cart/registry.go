package cart

import "sync"

// Registry tracks one Store per checkout session on the server side, so a
// returning client resumes the cart it left.
type Registry struct {
	mu     sync.Mutex
	stores map[int64]*Store
}

func NewRegistry() *Registry {
	return &Registry{stores: map[int64]*Store{}}
}

// Get returns the session's store, creating and binding one on first use.
// The second return reports whether the store is new, so the caller can
// hydrate it from the database.
func (r *Registry) Get(sessionID int64) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[sessionID]; ok {
		return s, false
	}
	s := NewStore()
	s.BindSession(sessionID)
	r.stores[sessionID] = s
	return s, true
}

// Forget drops the store for a finished session.
func (r *Registry) Forget(sessionID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sessionID)
}
