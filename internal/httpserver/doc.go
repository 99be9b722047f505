// Package httpserver wraps http.Server with address validation, an explicit
// listen step and graceful shutdown, and provides the forward proxy handler
// of the local fake services used to exercise the checks by hand.
package httpserver
