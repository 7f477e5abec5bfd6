package relay

import (
	"sync"

	"gitlab.com/codearena-2025.net/internal/sse"
)

// Subscriber is the narrow push contract a live client connection exposes
// to the relay. Send reports an error once the subscriber is gone; Close
// must be idempotent.
type Subscriber interface {
	Send(ev sse.Event) error
	Close()
}

// Registry maps live job ids to their subscriber. At most one subscriber
// per job; unrelated jobs never contend. It is an injected component so it
// can be exercised with fake subscribers.
type Registry struct {
	subs sync.Map // jobID -> Subscriber
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Put registers the subscriber for a job. A replaced subscriber is orphaned
// on purpose; its own timeout closes it.
func (r *Registry) Put(jobID string, sub Subscriber) {
	r.subs.Store(jobID, sub)
}

// Get looks up the subscriber for a job.
func (r *Registry) Get(jobID string) (Subscriber, bool) {
	value, ok := r.subs.Load(jobID)
	if !ok {
		return nil, false
	}
	return value.(Subscriber), true
}

// RemoveAndClose tears down the subscription for a job. Completion, timeout
// and transport-error paths all race here; the LoadAndDelete guarantees only
// the first caller performs the close, the rest observe a no-op.
func (r *Registry) RemoveAndClose(jobID string) {
	if value, ok := r.subs.LoadAndDelete(jobID); ok {
		value.(Subscriber).Close()
	}
}

// Evict removes the entry for a job only if it still maps to sub. A
// connection tearing itself down uses this so it never removes a
// replacement subscription for the same job.
func (r *Registry) Evict(jobID string, sub Subscriber) {
	r.subs.CompareAndDelete(jobID, sub)
}
