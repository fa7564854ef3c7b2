// Package event provides an in-process event dispatcher.
//
// Services fire domain events after state changes; listeners (websocket
// feed, mail jobs, cache invalidation) subscribe at boot:
//
//	event.Listen(event.ProductCreated, func(p interface{}) { ... })
//	event.Fire(event.ProductCreated, product)
package event

import (
	"errors"
	"sync"

	"github.com/shashiranjanraj/vastra/pkg/workerpool"
)

// Domain event names.
const (
	UserRegistered = "user.registered"
	UserLoggedIn   = "user.logged_in"
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
)

// Handler receives an event payload.
type Handler func(payload interface{})

// Dispatcher routes fired events to registered handlers.
// The zero value is ready to use.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// Default is the process-wide dispatcher used by the package-level functions.
var Default = &Dispatcher{}

// asyncPool bounds FireAsync fan-out so a burst of mutations cannot spawn
// unbounded goroutines.
var asyncPool = workerpool.New(32)

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handlers == nil {
		d.handlers = map[string][]Handler{}
	}
	d.handlers[name] = append(d.handlers[name], h)
}

// Fire dispatches an event synchronously to all registered listeners,
// in registration order.
func (d *Dispatcher) Fire(name string, payload interface{}) {
	for _, h := range d.snapshot(name) {
		h(payload)
	}
}

// FireAsync dispatches to all listeners concurrently and returns
// immediately. Listeners must be safe to run off the calling goroutine.
// When the pool is saturated the handler runs synchronously instead of
// being dropped.
func (d *Dispatcher) FireAsync(name string, payload interface{}) {
	for _, h := range d.snapshot(name) {
		h := h
		if err := asyncPool.Submit(func() { h(payload) }); err != nil {
			if errors.Is(err, workerpool.ErrPoolFull) || errors.Is(err, workerpool.ErrPoolClosed) {
				h(payload)
			}
		}
	}
}

// Flush removes all listeners. Used in tests.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = map[string][]Handler{}
}

func (d *Dispatcher) snapshot(name string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, len(d.handlers[name]))
	copy(hs, d.handlers[name])
	return hs
}

func Listen(name string, h Handler)              { Default.Listen(name, h) }
func Fire(name string, payload interface{})      { Default.Fire(name, payload) }
func FireAsync(name string, payload interface{}) { Default.FireAsync(name, payload) }
func Flush()                                     { Default.Flush() }
