// Package server hosts the Fiber HTTP application and request middleware
// chain for sketch-hub. It wires panic recovery, request IDs, and the mapping
// from tree error kinds to HTTP status codes, and exposes the AppOptions
// constructor that main and the integration tests share. Endpoint handlers
// live in the routes subpackage; this package stays transport-only so the
// lookup service and toolchain client remain testable without HTTP.
package server
