package transform

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

// Handler provides the HTTP endpoint for document transformations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	basePath      string
	maxUploadSize int64
}

// NewHandler creates a transform handler with the specified configuration.
func NewHandler(sys System, logger *slog.Logger, basePath string, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "transforms"),
		basePath:      basePath,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the transform endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/transforms",
		Description: "Redaction, figure extraction, and page deletion",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Process},
		},
	}
}

type pairRef struct {
	Figure  artifacts.Ref  `json:"figure"`
	Caption *artifacts.Ref `json:"caption"`
}

type processResponse struct {
	Document  artifacts.Ref        `json:"document"`
	Figures   map[string][]pairRef `json:"figures"`
	PageCount int                  `json:"page_count"`
}

func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	upload, err := documents.ReadUpload(r, h.maxUploadSize)
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	input, err := readInput(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Process(r.Context(), ProcessCommand{
		Name:     upload.Name,
		Filename: upload.Filename,
		Data:     upload.Data,
		Input:    *input,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, h.mapStatus(err), err)
		return
	}

	resp := processResponse{
		Document:  artifacts.NewRef(h.basePath, result.Document),
		Figures:   make(map[string][]pairRef, len(result.Figures)),
		PageCount: result.PageCount,
	}
	for page, pairs := range result.Figures {
		refs := make([]pairRef, 0, len(pairs))
		for _, pair := range pairs {
			ref := pairRef{Figure: artifacts.NewRef(h.basePath, pair.Figure)}
			if pair.Caption != nil {
				caption := artifacts.NewRef(h.basePath, pair.Caption)
				ref.Caption = &caption
			}
			refs = append(refs, ref)
		}
		resp.Figures[strconv.Itoa(page)] = refs
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// mapStatus covers both error families: upload validation failures from the
// document catalog and pipeline failures from the transformer.
func (h *Handler) mapStatus(err error) int {
	if status := documents.MapHTTPStatus(err); status != http.StatusInternalServerError {
		return status
	}
	return MapHTTPStatus(err)
}

// readInput parses the transformation form fields accompanying the upload.
func readInput(r *http.Request) (*Input, error) {
	var input Input

	if raw := r.FormValue("redactions"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Redactions); err != nil {
			return nil, fmt.Errorf("invalid redactions: %w", err)
		}
	}

	if raw := r.FormValue("figures"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Figures); err != nil {
			return nil, fmt.Errorf("invalid figures: %w", err)
		}
	}

	spec, err := readDeleteSpec(r)
	if err != nil {
		return nil, err
	}
	input.Delete = spec

	return &input, nil
}

func readDeleteSpec(r *http.Request) (*pages.RangeSpec, error) {
	var spec pages.RangeSpec

	if raw := r.FormValue("delete_start"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid delete_start: %w", err)
		}
		spec.Start = &n
	}

	if raw := r.FormValue("delete_end"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid delete_end: %w", err)
		}
		spec.End = &n
	}

	if raw := r.FormValue("delete_pages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &spec.Pages); err != nil {
			return nil, fmt.Errorf("invalid delete_pages: %w", err)
		}
	}

	if spec.IsZero() {
		return nil, nil
	}
	return &spec, nil
}
