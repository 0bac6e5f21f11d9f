// Package delivery defines the contract every transport-facing server in the
// application satisfies, so main can run any set of them uniformly.
package delivery

import "context"

// Delivery is a long-running server (HTTP API, Pub/Sub push worker). Serve
// blocks until the server stops; shutdown is driven by fx lifecycle hooks.
type Delivery interface {
	Serve(ctx context.Context) error
}
