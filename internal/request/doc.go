// Package request turns a target URL and a transport into a request descriptor.
// Descriptors are built either for a direct connection or for a forward proxy,
// in which case the request path carries the absolute target URL.
package request
