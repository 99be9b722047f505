// Fakeservices starts local stand-ins for Hub, Rails and a forward proxy so
// the probe can be exercised without the real services.
//
// Usage:
//
//	go run ./scripts -hub :8081 -rails :8082 -proxy :3128 -proxy-user probe -proxy-pass s3cret
//
// Point the probe at them with
//
//	TARGETS_HUB_STATUS=http://127.0.0.1:8081/api/v1/status \
//	TARGETS_RAILS_AUTOMATE=http://127.0.0.1:8082/automate \
//	PROXY_HOST=127.0.0.1 PROXY_PORT=3128 PROXY_USERNAME=probe PROXY_PASSWORD=s3cret \
//	go run ./cmd
//
// The HTTPS checks fail against these plain listeners.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/netcheck/internal/httpserver"
	"github.com/angeloszaimis/netcheck/internal/request"
	"github.com/angeloszaimis/netcheck/pkg/logger"
)

func main() {
	hubAddr := flag.String("hub", ":8081", "address of the fake Hub")
	railsAddr := flag.String("rails", ":8082", "address of the fake Rails")
	proxyAddr := flag.String("proxy", ":3128", "address of the forward proxy")
	proxyUser := flag.String("proxy-user", "", "username the proxy requires")
	proxyPass := flag.String("proxy-pass", "", "password the proxy requires")
	flag.Parse()

	log := logger.New("info", false, "dev", os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	servers := map[string]http.Handler{
		*hubAddr:   hubHandler(log),
		*railsAddr: railsHandler(log),
		*proxyAddr: httpserver.ForwardProxy(log, request.Proxy{Username: *proxyUser, Password: *proxyPass}),
	}

	var started []*httpserver.Server
	for addr, handler := range servers {
		srv, err := httpserver.New(addr, handler)
		if err != nil {
			log.Error("Invalid address", slog.String("addr", addr), slog.Any("err", err))
			os.Exit(1)
		}
		started = append(started, srv)

		go func() {
			log.Info("Starting fake service", slog.String("addr", addr))
			if err := srv.Start(); err != nil {
				log.Error("Fake service failed", slog.String("addr", addr), slog.Any("err", err))
				cancel()
			}
		}()
	}

	<-ctx.Done()
	log.Info("Shutting down fake services")
	for _, srv := range started {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	}
}

func hubHandler(log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", func(w http.ResponseWriter, r *http.Request) {
		log.Info("Hub request", slog.String("from", r.RemoteAddr), slog.String("path", r.URL.Path))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

func railsHandler(log *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/automate", func(w http.ResponseWriter, r *http.Request) {
		log.Info("Rails request", slog.String("from", r.RemoteAddr), slog.String("path", r.URL.Path))
		http.Redirect(w, r, "/users/sign_in", http.StatusMovedPermanently)
	})
	return mux
}
