package api

import (
	"github.com/inkblot-io/inkblot/internal/config"
	"github.com/inkblot-io/inkblot/internal/infrastructure"
	"github.com/inkblot-io/inkblot/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	BasePath   string
	Processing config.ProcessingConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		BasePath:   cfg.API.BasePath,
		Processing: cfg.Processing,
	}
}
