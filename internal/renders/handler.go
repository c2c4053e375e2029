package renders

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/inkblot-io/inkblot/internal/artifacts"
	"github.com/inkblot-io/inkblot/internal/documents"
	"github.com/inkblot-io/inkblot/internal/pages"
	"github.com/inkblot-io/inkblot/pkg/handlers"
	"github.com/inkblot-io/inkblot/pkg/routes"
)

// Handler provides the HTTP endpoint for page rendering.
type Handler struct {
	sys           System
	logger        *slog.Logger
	basePath      string
	maxUploadSize int64
}

// NewHandler creates a render handler with the specified configuration.
func NewHandler(sys System, logger *slog.Logger, basePath string, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "renders"),
		basePath:      basePath,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the render endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/renders",
		Description: "Page rasterization",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Render},
		},
	}
}

type renderResponse struct {
	Document *documents.Document `json:"document"`
	Pages    []artifacts.Ref     `json:"pages"`
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	upload, err := documents.ReadUpload(r, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	cmd := RenderCommand{
		Name:     upload.Name,
		Filename: upload.Filename,
		Data:     upload.Data,
	}

	if raw := r.FormValue("dpi"); raw != "" {
		cmd.DPI, err = strconv.Atoi(raw)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid dpi: %w", err))
			return
		}
	}

	cmd.Pages, err = readPageSpec(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Render(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, h.mapStatus(err), err)
		return
	}

	resp := renderResponse{
		Document: result.Document,
		Pages:    make([]artifacts.Ref, 0, len(result.Pages)),
	}
	for _, art := range result.Pages {
		resp.Pages = append(resp.Pages, artifacts.NewRef(h.basePath, art))
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// mapStatus covers both error families: upload validation failures from the
// document catalog and render failures from the worker pool.
func (h *Handler) mapStatus(err error) int {
	if status := documents.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return MapHTTPStatus(err)
}

func readPageSpec(r *http.Request) (*pages.RangeSpec, error) {
	var spec pages.RangeSpec

	if raw := r.FormValue("start"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid start: %w", err)
		}
		spec.Start = &n
	}

	if raw := r.FormValue("end"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid end: %w", err)
		}
		spec.End = &n
	}

	if raw := r.FormValue("pages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &spec.Pages); err != nil {
			return nil, fmt.Errorf("invalid pages: %w", err)
		}
	}

	if spec.IsZero() {
		return nil, nil
	}
	return &spec, nil
}
