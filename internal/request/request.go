package request

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// Transport selects plain HTTP or HTTP over TLS.
type Transport string

const (
	HTTP  Transport = "http"
	HTTPS Transport = "https"
)

const ProxyAuthorizationHeader = "Proxy-Authorization"

var ErrInvalidURL = errors.New("invalid target url")

// DefaultPort returns the well-known port of the transport.
func (t Transport) DefaultPort() int {
	if t == HTTPS {
		return 443
	}
	return 80
}

// Valid reports whether t is one of the supported transports.
func (t Transport) Valid() bool {
	return t == HTTP || t == HTTPS
}

// Descriptor is a fully specified outbound request. It is never mutated
// after it has been built.
type Descriptor struct {
	Method  string
	Headers map[string]string
	Host    string
	Port    int
	Path    string
}

// Proxy is the forward proxy requests are routed through in proxied mode.
type Proxy struct {
	Host     string
	Port     int
	Username string
	Password string
}

// HasCredentials reports whether both username and password are set.
func (p Proxy) HasCredentials() bool {
	return p.Username != "" && p.Password != ""
}

// BuildFunc produces a descriptor for a target URL and transport.
type BuildFunc func(rawURL string, transport Transport) (Descriptor, error)

// Direct builds a descriptor that connects straight to the host named in rawURL.
func Direct(rawURL string, transport Transport) (Descriptor, error) {
	u, err := parseTarget(rawURL)
	if err != nil {
		return Descriptor{}, err
	}

	port := transport.DefaultPort()
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w: bad port %q", ErrInvalidURL, p)
		}
	}

	return Descriptor{
		Method:  "GET",
		Headers: map[string]string{},
		Host:    u.Hostname(),
		Port:    port,
		Path:    u.RequestURI(),
	}, nil
}

// Proxied returns a BuildFunc that routes every request through proxy. The
// descriptor's path is the absolute target URL, as forward proxies expect.
func Proxied(proxy Proxy) BuildFunc {
	return func(rawURL string, transport Transport) (Descriptor, error) {
		u, err := parseTarget(rawURL)
		if err != nil {
			return Descriptor{}, err
		}

		headers := map[string]string{}
		if proxy.HasCredentials() {
			headers[ProxyAuthorizationHeader] = "Basic " + EncodeCredentials(proxy.Username, proxy.Password)
		}

		return Descriptor{
			Method:  "GET",
			Headers: headers,
			Host:    proxy.Host,
			Port:    proxy.Port,
			Path:    u.String(),
		}, nil
	}
}

// EncodeCredentials returns base64(username:password).
func EncodeCredentials(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

func parseTarget(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme == "" || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q must be absolute", ErrInvalidURL, rawURL)
	}

	return u, nil
}
