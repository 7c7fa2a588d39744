// Package service implements the HTTP API of the expense service.
package service

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/expenses/internal/auth"
	"github.com/mmynk/expenses/internal/middleware"
	"github.com/mmynk/expenses/internal/storage"
	"github.com/mmynk/expenses/pkg/api"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// Metrics, if set, records requests and is served at /metrics.
	Metrics *middleware.Metrics

	// JWTManager and Password enable bearer-token auth on /expenses routes
	// and the /auth/token exchange. Both must be set to enable auth.
	JWTManager *auth.JWTManager
	Password   *auth.PasswordChecker
}

// NewRouter builds the full handler tree of the expense service.
func NewRouter(store storage.Store, opts RouterOptions) *mux.Router {
	// IDs arrive path-escaped from remote.HTTPClient.
	r := mux.NewRouter().UseEncodedPath()
	r.Use(middleware.Logging(opts.Metrics))

	r.HandleFunc(api.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)

	if opts.Metrics != nil {
		r.Handle(api.MetricsPath, opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	expenses := r.NewRoute().Subrouter()
	if opts.JWTManager != nil && opts.Password != nil {
		NewAuthService(opts.Password, opts.JWTManager).Register(r)
		expenses.Use(middleware.RequireAuth(opts.JWTManager))
	}
	NewExpenseService(store, opts.Metrics).Register(expenses)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}
