// Package feed pushes catalog changes to WebSocket subscribers.
//
// Every product mutation fires a domain event; the feed hub relays it to
// connected clients as {"event": "product.created", "product": {...}}.
// Storefronts use this to refresh listings without polling.
package feed

import (
	"net/http"

	"github.com/shashiranjanraj/vastra/pkg/event"
	"github.com/shashiranjanraj/vastra/pkg/ws"
)

// Hub is the shared product-feed hub. Start must be called once at boot.
var Hub = ws.NewHub()

type update struct {
	Event   string      `json:"event"`
	Product interface{} `json:"product"`
}

// Start runs the hub and subscribes it to product events.
func Start() {
	go Hub.Run()

	relay := func(name string) event.Handler {
		return func(payload interface{}) {
			Hub.BroadcastJSON(update{Event: name, Product: payload})
		}
	}
	event.Listen(event.ProductCreated, relay(event.ProductCreated))
	event.Listen(event.ProductUpdated, relay(event.ProductUpdated))
	event.Listen(event.ProductDeleted, relay(event.ProductDeleted))
}

// Serve upgrades an HTTP request to a feed subscription.
func Serve(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, Hub)
}
