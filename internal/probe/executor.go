package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/angeloszaimis/netcheck/internal/request"
)

// DefaultTimeout is used when the executor is given no positive timeout.
const DefaultTimeout = 5 * time.Second

// ErrRequestTimedOut is the error of a check aborted by its timeout.
var ErrRequestTimedOut = errors.New("Request Timed Out")

// Executor runs request descriptors over a plain or a TLS client. Clients
// never follow redirects, never reuse connections and ignore proxy settings
// from the environment.
type Executor struct {
	timeout time.Duration
	logger  *slog.Logger
	clients map[request.Transport]*http.Client
}

// Option configures an Executor.
type Option func(*executorOptions)

type executorOptions struct {
	tlsConfig *tls.Config
}

// WithTLSConfig sets the TLS configuration of the https client.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(o *executorOptions) {
		o.tlsConfig = cfg
	}
}

// NewExecutor creates an executor whose requests are aborted after timeout.
func NewExecutor(timeout time.Duration, logger *slog.Logger, opts ...Option) *Executor {
	var o executorOptions
	for _, opt := range opts {
		opt(&o)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Executor{
		timeout: timeout,
		logger:  logger,
		clients: map[request.Transport]*http.Client{
			request.HTTP:  newClient(nil),
			request.HTTPS: newClient(o.tlsConfig),
		},
	}
}

func newClient(tlsConfig *tls.Config) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:             nil,
			DisableKeepAlives: true,
			TLSClientConfig:   tlsConfig,
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Execute fires desc and returns exactly one Outcome. The outcome is Passed
// only when a response arrived with a status code contained in success.
func (e *Executor) Execute(
	ctx context.Context,
	desc request.Descriptor,
	transport request.Transport,
	description string,
	success StatusSet,
) Outcome {
	start := time.Now()
	outcome := Outcome{Description: description, Result: Failed}

	finish := func(err error) Outcome {
		outcome.Duration = time.Since(start)
		if err != nil {
			outcome.StatusCode = 0
			outcome.Result = Failed
			outcome.Error = err.Error()
		}

		e.logger.Debug("Check completed",
			slog.String("check", description),
			slog.String("result", string(outcome.Result)),
			slog.Int("status", outcome.StatusCode),
			slog.Duration("duration", outcome.Duration))

		return outcome
	}

	if !transport.Valid() {
		return finish(fmt.Errorf("unsupported transport %q", transport))
	}
	client := e.clients[transport]

	ctx, cancel := context.WithTimeoutCause(ctx, e.timeout, ErrRequestTimedOut)
	defer cancel()

	req, err := newHTTPRequest(ctx, desc, transport)
	if err != nil {
		return finish(err)
	}

	res, err := client.Do(req)
	if err != nil {
		return finish(requestError(ctx, err))
	}
	defer res.Body.Close()

	outcome.StatusCode = res.StatusCode
	if success.Contains(res.StatusCode) {
		outcome.Result = Passed
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return finish(requestError(ctx, err))
	}
	outcome.Body = string(body)

	return finish(nil)
}

func requestError(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), ErrRequestTimedOut) {
		return ErrRequestTimedOut
	}
	return err
}

// newHTTPRequest addresses the descriptor's host and port. An absolute path
// is written verbatim on the request line, which is how a forward proxy
// learns the real target.
func newHTTPRequest(ctx context.Context, desc request.Descriptor, transport request.Transport) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, desc.Method, "", nil)
	if err != nil {
		return nil, err
	}

	u := &url.URL{
		Scheme: string(transport),
		Host:   net.JoinHostPort(desc.Host, strconv.Itoa(desc.Port)),
	}

	target, err := url.Parse(desc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", request.ErrInvalidURL, err)
	}

	if target.IsAbs() {
		u.Opaque = "//" + target.Host + target.EscapedPath()
		req.Host = target.Host
	} else {
		u.Path = target.Path
		u.RawPath = target.RawPath
	}
	u.RawQuery = target.RawQuery

	req.URL = u
	for name, value := range desc.Headers {
		req.Header.Set(name, value)
	}

	return req, nil
}
