// Package server hosts the Fiber HTTP service: the global middleware chain
// (request id, request log, panic recovery, CORS, rate limiting), the error
// handler that maps content errors to JSON bodies, and the per-route pipeline
// that resolves version and language before consulting the edge cache.
// Route handlers live in the routes subpackage and receive their dependencies
// explicitly; nothing here reads global state.
package server
