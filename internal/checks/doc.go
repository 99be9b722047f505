// Package checks holds the fixed list of connectivity checks and decides,
// once per process, which of them apply. Proxied checks are only selected
// when a forward proxy is configured.
package checks
