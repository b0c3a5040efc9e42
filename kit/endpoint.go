// Package kit holds the transport-agnostic request plumbing shared by the
// liseuse surfaces: typed context keys, the Endpoint abstraction, and
// adapters that expose an Endpoint over a concrete transport (MCP).
package kit

import "context"

// Endpoint is a single transport-agnostic operation: typed request in,
// typed response out. HTTP handlers and MCP tools both terminate here.
type Endpoint func(ctx context.Context, request any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares left to right: the first middleware is the
// outermost one.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
