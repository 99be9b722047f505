package httpserver

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/netcheck/internal/request"
)

// ForwardProxy returns a handler that forwards absolute-form requests to
// their origin without following redirects. When creds carries a username
// and password, requests without the matching Proxy-Authorization header are
// answered with 407.
func ForwardProxy(log *slog.Logger, creds request.Proxy) http.Handler {
	client := &http.Client{
		Transport: &http.Transport{Proxy: nil, DisableKeepAlives: true},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	want := "Basic " + request.EncodeCredentials(creds.Username, creds.Password)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("Proxy request", slog.String("from", r.RemoteAddr), slog.String("target", r.RequestURI))

		if creds.HasCredentials() && r.Header.Get(request.ProxyAuthorizationHeader) != want {
			w.Header().Set("Proxy-Authenticate", `Basic realm="netcheck"`)
			w.WriteHeader(http.StatusProxyAuthRequired)
			return
		}

		if !r.URL.IsAbs() {
			http.Error(w, "absolute-form request required", http.StatusBadRequest)
			return
		}

		out, err := http.NewRequestWithContext(r.Context(), r.Method, r.URL.String(), nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		res, err := client.Do(out)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		defer res.Body.Close()

		for name, values := range res.Header {
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		w.WriteHeader(res.StatusCode)
		io.Copy(w, res.Body)
	})
}
