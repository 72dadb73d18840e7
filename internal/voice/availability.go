package voice

import "sync"

// Availability is the process-wide memo of whether the upstream speech
// provider is reachable. Lifecycle: unknown at startup, set by the
// orchestrator's first probe, cleared only by an explicit Reset. It never
// expires on its own.
//
// Constructed per process (or per test) and injected; the orchestrator is
// the single writer.
type Availability struct {
	mu        sync.Mutex
	known     bool
	available bool
}

// NewAvailability returns a cache in the unknown state.
func NewAvailability() *Availability {
	return &Availability{}
}

// Get returns the cached value and whether it is known. When known is
// false, available is meaningless.
func (a *Availability) Get() (available, known bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.available, a.known
}

// Set records the probed availability.
func (a *Availability) Set(available bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.available = available
	a.known = true
}

// Reset returns the cache to the unknown state, forcing the next request
// to re-probe. Used for test isolation and manual recovery.
func (a *Availability) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.known = false
	a.available = false
}
