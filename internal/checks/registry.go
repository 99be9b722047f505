package checks

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/angeloszaimis/netcheck/internal/probe"
	"github.com/angeloszaimis/netcheck/internal/request"
)

type Target string

const (
	Hub   Target = "hub"
	Rails Target = "rails"
)

type Mode string

const (
	Direct  Mode = "direct"
	Proxied Mode = "proxied"
)

// Definition is one named check: a target reached over a transport, either
// directly or through the proxy, and the status codes it accepts.
type Definition struct {
	Target      Target
	Transport   request.Transport
	Mode        Mode
	Description string
	Success     probe.StatusSet
}

// Targets are the endpoint URLs of the two probed services. The scheme is
// replaced by each check's transport.
type Targets struct {
	HubStatus     string
	RailsAutomate string
}

// Registry selects the applicable checks exactly once and keeps the request
// builders used for them.
type Registry struct {
	once        sync.Once
	targets     Targets
	proxy       *request.Proxy
	definitions []Definition
	builders    map[Mode]request.BuildFunc
}

func NewRegistry(targets Targets, proxy *request.Proxy) *Registry {
	return &Registry{
		targets: targets,
		proxy:   proxy,
	}
}

// Select returns the checks for this process. The first call fixes the list;
// later calls return it unchanged.
func (r *Registry) Select() []Definition {
	r.once.Do(func() {
		r.definitions = []Definition{
			{Target: Hub, Transport: request.HTTP, Mode: Direct, Description: "Hub status over HTTP", Success: probe.NewStatusSet(200)},
			{Target: Rails, Transport: request.HTTP, Mode: Direct, Description: "Rails automate over HTTP", Success: probe.NewStatusSet(200, 301)},
			{Target: Hub, Transport: request.HTTPS, Mode: Direct, Description: "Hub status over HTTPS", Success: probe.NewStatusSet(200)},
			{Target: Rails, Transport: request.HTTPS, Mode: Direct, Description: "Rails automate over HTTPS", Success: probe.NewStatusSet(301, 302)},
		}
		r.builders = map[Mode]request.BuildFunc{Direct: request.Direct}

		// HTTPS through the proxy would need CONNECT tunneling, which is not supported.
		if r.proxy != nil {
			r.definitions = append(r.definitions,
				Definition{Target: Hub, Transport: request.HTTP, Mode: Proxied, Description: "Hub status over HTTP via proxy", Success: probe.NewStatusSet(200)},
				Definition{Target: Rails, Transport: request.HTTP, Mode: Proxied, Description: "Rails automate over HTTP via proxy", Success: probe.NewStatusSet(301)},
			)
			r.builders[Proxied] = request.Proxied(*r.proxy)
		}
	})

	out := make([]Definition, len(r.definitions))
	copy(out, r.definitions)
	return out
}

// Build produces the request descriptor for def using the builder fixed at
// selection time.
func (r *Registry) Build(def Definition) (request.Descriptor, error) {
	r.Select()

	build, ok := r.builders[def.Mode]
	if !ok {
		return request.Descriptor{}, fmt.Errorf("no request builder for %s mode", def.Mode)
	}

	target, err := r.URL(def)
	if err != nil {
		return request.Descriptor{}, err
	}

	return build(target, def.Transport)
}

// URL returns the target URL of def with its transport as the scheme.
func (r *Registry) URL(def Definition) (string, error) {
	var raw string
	switch def.Target {
	case Hub:
		raw = r.targets.HubStatus
	case Rails:
		raw = r.targets.RailsAutomate
	default:
		return "", fmt.Errorf("unknown target %q", def.Target)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", request.ErrInvalidURL, err)
	}
	u.Scheme = string(def.Transport)

	return u.String(), nil
}
