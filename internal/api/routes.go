package api

import (
	"net/http"

	"github.com/inkblot-io/inkblot/internal/artifacts"
	"github.com/inkblot-io/inkblot/internal/config"
	"github.com/inkblot-io/inkblot/internal/documents"
	"github.com/inkblot-io/inkblot/internal/renders"
	"github.com/inkblot-io/inkblot/internal/transform"
	"github.com/inkblot-io/inkblot/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	runtime *Runtime,
	domain *Domain,
	cfg *config.Config,
) {
	maxUpload := cfg.Storage.MaxUploadSizeBytes()

	documentsHandler := documents.NewHandler(domain.Documents, runtime.Logger, runtime.Pagination, maxUpload)
	artifactsHandler := artifacts.NewHandler(domain.Artifacts, runtime.Logger, runtime.Pagination)
	rendersHandler := renders.NewHandler(domain.Renders, runtime.Logger, runtime.BasePath, maxUpload)
	transformsHandler := transform.NewHandler(domain.Transforms, runtime.Logger, runtime.BasePath, maxUpload)

	routes.Register(
		mux,
		runtime.BasePath,
		documentsHandler.Routes(),
		artifactsHandler.Routes(),
		rendersHandler.Routes(),
		transformsHandler.Routes(),
	)
}
