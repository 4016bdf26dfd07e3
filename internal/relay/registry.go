package relay

import "sync"

// Entry is one registration in the connection registry.
type Entry struct {
	UserID  string
	Channel Channel
}

// Registry maps user IDs to their currently active channel. It also keeps
// the registration order, oldest first, which owner succession scans to
// pick a deterministic successor. A later registration with the same user
// ID silently supersedes the channel but keeps the original position.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]Channel
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]Channel)}
}

// Register records or overwrites the channel for userID. Overwriting a
// stale entry is expected when a user reconnects.
func (r *Registry) Register(userID string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[userID]; !ok {
		r.order = append(r.order, userID)
	}
	r.byUser[userID] = ch
}

// Unregister removes the mapping for userID; no-op if absent.
func (r *Registry) Unregister(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[userID]; !ok {
		return
	}
	delete(r.byUser, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the active channel for userID.
func (r *Registry) Lookup(userID string) (Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.byUser[userID]
	return ch, ok
}

// Ordered returns a snapshot of all registrations, oldest first.
func (r *Registry) Ordered() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.order))
	for _, userID := range r.order {
		entries = append(entries, Entry{UserID: userID, Channel: r.byUser[userID]})
	}
	return entries
}
