// Package server assembles the HTTP surface: Connect services, metrics and health.
package server

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/pkg/ledgerapi/ledgerapiconnect"
)

// Services are the Connect handlers mounted by NewRouter.
type Services struct {
	Ledger ledgerapiconnect.LedgerServiceHandler
	Groups ledgerapiconnect.GroupServiceHandler
	Auth   ledgerapiconnect.AuthServiceHandler
}

// NewRouter mounts the services on a chi router. Ledger and group calls require
// a valid JWT; auth calls accept anonymous callers.
func NewRouter(svc Services, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors)

	// Auth runs before logging so log lines carry the user ID.
	protected := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)
	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(),
	)

	mount(r)(ledgerapiconnect.NewLedgerServiceHandler(svc.Ledger, protected))
	mount(r)(ledgerapiconnect.NewGroupServiceHandler(svc.Groups, protected))
	mount(r)(ledgerapiconnect.NewAuthServiceHandler(svc.Auth, public))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// mount returns a function that takes a Connect constructor's (path, handler)
// pair directly and routes everything under path to the handler.
func mount(r chi.Router) func(string, http.Handler) {
	return func(path string, handler http.Handler) {
		r.Handle(path+"*", handler)
	}
}

// H2C serves HTTP/2 without TLS, which Connect's gRPC protocol needs.
func H2C(handler http.Handler) http.Handler {
	return h2c.NewHandler(handler, &http2.Server{})
}
