package wsbridge

import (
	"sync"
	"time"
)

// Environment bundles the concurrency primitives and the adapter constructor
// for one hosting environment. Engine layers that select their backend by
// name look the bundle up here instead of hardcoding a runtime.
type Environment struct {
	// Spawn starts a background task and returns a channel carrying its
	// terminal error.
	Spawn func(fn func() error) <-chan error

	// NewQueue returns the environment's unbounded FIFO primitive.
	NewQueue func() *Queue

	// NewEvent returns the environment's readiness event primitive.
	NewEvent func() *Event

	// ErrQueueEmpty is the drain-termination marker of the environment's
	// queue primitive.
	ErrQueueEmpty error

	// Sleep suspends the calling task for d.
	Sleep func(d time.Duration)

	// NewAdapter wraps an accepted host connection. It is nil when the
	// environment's WebSocket support is unavailable on this platform;
	// callers must treat that as "no websocket transport here".
	NewAdapter func(host Host, opts *Options) (*Adapter, error)
}

var (
	environmentsMu sync.RWMutex
	environments   = map[string]*Environment{}
)

// Register makes env available under name. Host bindings call it from their
// init functions, so a blank import of a binding is enough to enable its
// environment.
func Register(name string, env *Environment) {
	environmentsMu.Lock()
	defer environmentsMu.Unlock()
	if env == nil {
		panic("wsbridge: Register called with nil environment")
	}
	if _, dup := environments[name]; dup {
		panic("wsbridge: Register called twice for environment " + name)
	}
	environments[name] = env
}

// Lookup returns the environment registered under name.
func Lookup(name string) (*Environment, bool) {
	environmentsMu.RLock()
	defer environmentsMu.RUnlock()
	env, ok := environments[name]
	return env, ok
}

// Environments returns the names of all registered environments, in no
// particular order.
func Environments() []string {
	environmentsMu.RLock()
	defer environmentsMu.RUnlock()
	names := make([]string, 0, len(environments))
	for name := range environments {
		names = append(names, name)
	}
	return names
}
