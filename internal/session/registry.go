package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Entry ties a member's session manager to the identity it was created for.
type Entry struct {
	Manager *Manager
	BuyerID string
}

// Registry maps the sid cookie to the member's session manager. Entries
// remove themselves once their manager broadcasts Invalid, so a dead session
// can never be resolved again.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]Entry
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		byID:   make(map[uuid.UUID]Entry),
		logger: logger,
	}
}

func (r *Registry) Add(mgr *Manager, buyerID string) uuid.UUID {
	id := uuid.New()

	// Subscribe before the entry becomes resolvable; an Invalid broadcast
	// fired right after Add lands in the watch buffer instead of being lost.
	watch := mgr.Watch()

	r.mu.Lock()
	r.byID[id] = Entry{Manager: mgr, BuyerID: buyerID}
	r.mu.Unlock()

	go r.reapOnInvalid(id, mgr, watch)
	return id
}

func (r *Registry) Get(id uuid.UUID) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	return e, ok
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *Registry) reapOnInvalid(id uuid.UUID, mgr *Manager, watch <-chan State) {
	// A manager that died before the subscription never broadcasts again, so
	// check its state once instead of waiting forever.
	if mgr.State() != StateInvalid {
		for state := range watch {
			if state == StateInvalid {
				break
			}
		}
	}
	r.Remove(id)
	r.logger.Info("session invalidated, removed from registry", "sid", id.String())
}
