package resolver

import (
	"context"
	"sync"

	"github.com/x402x/gives/types"
)

// Result is one delivered resolution. Data is nil when the route resolved
// to nothing ("not found").
type Result struct {
	Route Route
	Data  *types.RecipientPageData
	Err   error
}

// Watcher re-invokes the resolver whenever the navigational identity
// changes and guarantees that a stale in-flight resolution is discarded on
// arrival instead of being applied to the now-irrelevant view. Delivery
// order therefore always matches navigation order for the results that do
// arrive.
type Watcher struct {
	resolver *Resolver
	deliver  func(Result)

	mu         sync.Mutex
	generation uint64
	identity   string
	cancel     context.CancelFunc
}

// NewWatcher builds a watcher delivering results through the given
// callback. The callback runs on the resolution goroutine.
func NewWatcher(r *Resolver, deliver func(Result)) *Watcher {
	return &Watcher{resolver: r, deliver: deliver}
}

// Navigate records a new navigational identity and starts a resolution for
// it. Navigating to the identity currently displayed is a no-op; anything
// else invalidates whatever is still in flight.
func (w *Watcher) Navigate(ctx context.Context, route Route) {
	w.mu.Lock()
	identity := route.Identity()
	if identity == w.identity && w.generation > 0 {
		w.mu.Unlock()
		return
	}

	if w.cancel != nil {
		w.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.generation++
	w.identity = identity
	generation := w.generation
	w.mu.Unlock()

	go func() {
		data, err := w.resolver.Resolve(runCtx, route)
		cancel()

		w.mu.Lock()
		stale := generation != w.generation
		w.mu.Unlock()
		if stale {
			return
		}

		w.deliver(Result{Route: route, Data: data, Err: err})
	}()
}

// Stop invalidates any in-flight resolution without starting a new one.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.generation++
	w.identity = ""
}
