package transform

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/inkblot-io/inkblot/internal/artifacts"
	"github.com/inkblot-io/inkblot/internal/documents"
	"github.com/inkblot-io/inkblot/internal/engine"
)

// ProcessCommand describes a transformation request against an uploaded
// document.
type ProcessCommand struct {
	Name     string
	Filename string
	Data     []byte
	Input    Input
}

// Pair references the stored artifacts for one extracted figure. Caption is
// nil when the figure had no caption region.
type Pair struct {
	Figure  *artifacts.Artifact
	Caption *artifacts.Artifact
}

// ProcessResult holds the stored outputs of a transformation.
type ProcessResult struct {
	Document  *artifacts.Artifact
	Figures   map[int][]Pair
	PageCount int
}

// System runs transformation pipelines and persists their outputs.
type System interface {
	Process(ctx context.Context, cmd ProcessCommand) (*ProcessResult, error)
}

type repo struct {
	documents   documents.System
	artifacts   artifacts.System
	transformer *Transformer
	logger      *slog.Logger
}

// New creates a transform System backed by the document and artifact
// catalogs.
func New(docs documents.System, arts artifacts.System, transformer *Transformer, logger *slog.Logger) System {
	return &repo{
		documents:   docs,
		artifacts:   arts,
		transformer: transformer,
		logger:      logger.With("system", "transform"),
	}
}

func (r *repo) Process(ctx context.Context, cmd ProcessCommand) (*ProcessResult, error) {
	doc, err := r.documents.Create(ctx, documents.CreateCommand{
		Name:     cmd.Name,
		Filename: cmd.Filename,
		Data:     cmd.Data,
	})
	if err != nil {
		return nil, err
	}

	result, err := r.transformer.Process(ctx, cmd.Data, cmd.Input)
	if err != nil {
		return nil, err
	}

	// track what has been recorded so a mid-store failure leaves no
	// partial outputs behind
	var created []*artifacts.Artifact
	fail := func(err error) (*ProcessResult, error) {
		r.discard(ctx, created)
		return nil, err
	}

	out, err := r.artifacts.Create(ctx, artifacts.CreateCommand{
		DocumentID:  doc.ID,
		Kind:        artifacts.KindDocument,
		ContentType: "application/pdf",
		Data:        result.Document,
	})
	if err != nil {
		return nil, err
	}
	created = append(created, out)

	figures := make(map[int][]Pair, len(result.Figures))
	for page, images := range result.Figures {
		pairs := make([]Pair, 0, len(images))
		for seq, fi := range images {
			var pair Pair

			pair.Figure, err = r.storeImage(ctx, doc, artifacts.KindFigure, page, seq, fi.Figure)
			if err != nil {
				return fail(err)
			}
			created = append(created, pair.Figure)

			if fi.Caption != nil {
				pair.Caption, err = r.storeImage(ctx, doc, artifacts.KindCaption, page, seq, fi.Caption)
				if err != nil {
					return fail(err)
				}
				created = append(created, pair.Caption)
			}

			pairs = append(pairs, pair)
		}
		figures[page] = pairs
	}

	r.logger.Info("transformation stored",
		"document_id", doc.ID,
		"artifact_id", out.ID,
		"page_count", result.PageCount,
	)

	return &ProcessResult{
		Document:  out,
		Figures:   figures,
		PageCount: result.PageCount,
	}, nil
}

// discard removes artifacts recorded before a failure.
func (r *repo) discard(ctx context.Context, created []*artifacts.Artifact) {
	for _, art := range created {
		if err := r.artifacts.Delete(ctx, art.ID); err != nil {
			r.logger.Error("discard artifact failed", "artifact_id", art.ID, "error", err)
		}
	}
}

func (r *repo) storeImage(ctx context.Context, doc *documents.Document, kind artifacts.Kind, page, seq int, img image.Image) (*artifacts.Artifact, error) {
	data, err := engine.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s page %d: %v", ErrProcessing, kind, page, err)
	}

	return r.artifacts.Create(ctx, artifacts.CreateCommand{
		DocumentID:  doc.ID,
		Kind:        kind,
		PageNumber:  &page,
		Sequence:    &seq,
		ContentType: "image/png",
		Data:        data,
	})
}
