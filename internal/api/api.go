// Package api assembles the HTTP surface: domain systems, route
// registration, and the middleware chain.
package api

import (
	"net/http"

	"github.com/inkblot-io/inkblot/internal/config"
	"github.com/inkblot-io/inkblot/internal/infrastructure"
	"github.com/inkblot-io/inkblot/pkg/handlers"
	"github.com/inkblot-io/inkblot/pkg/middleware"
)

// New builds the API handler and its domain systems from the application
// configuration and shared infrastructure.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) (http.Handler, *Domain) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime, cfg)

	mux := http.NewServeMux()
	registerRoutes(mux, runtime, domain, cfg)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if !runtime.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	chain := middleware.New()
	chain.Use(middleware.TrimSlash())
	chain.Use(middleware.CORS(&cfg.API.CORS))
	chain.Use(middleware.Logger(runtime.Logger))

	return chain.Apply(mux), domain
}
