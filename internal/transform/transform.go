// Package transform implements document transformation pipelines: figure and
// caption extraction, region redaction with blank-page removal, and page
// deletion. The pipeline runs against the engine boundary so its semantics
// are independent of the PDF backend.
package transform

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"iter"
	"log/slog"
	"sort"
	"strings"

	"github.com/inkblot-io/inkblot/internal/engine"
	"github.com/inkblot-io/inkblot/internal/pages"
)

// Options holds the coordinate-space and rendering parameters of a pipeline.
// Client rectangles arrive in ReferenceDPI coordinates; redactions are
// applied in NativeDPI page points.
type Options struct {
	ReferenceDPI int
	NativeDPI    int
	BorderWidth  int
}

// DefaultOptions returns the standard 96 DPI client space over 72 DPI pages
// with a 10 pixel crop border.
func DefaultOptions() Options {
	return Options{
		ReferenceDPI: 96,
		NativeDPI:    72,
		BorderWidth:  10,
	}
}

// Input describes a transformation request. Redactions and Figures assign
// regions to pages; figure regions are redacted from the source in addition
// to being cropped. Delete names pages to remove regardless of content.
type Input struct {
	Redactions RedactionMap
	Figures    FigureMap
	Delete     *pages.RangeSpec
}

// FigureImages holds the cropped images for one figure pair. Caption is nil
// when the pair has no caption region.
type FigureImages struct {
	Figure  image.Image
	Caption image.Image
}

// Result is the outcome of a transformation: the rewritten document bytes,
// cropped figure images keyed by source page, and the final page count.
type Result struct {
	Document  []byte
	Figures   map[int][]FigureImages
	PageCount int
}

// Transformer runs transformation pipelines against a document engine.
type Transformer struct {
	engine engine.Engine
	opts   Options
	logger *slog.Logger
}

// NewTransformer creates a Transformer with the given engine and options.
func NewTransformer(eng engine.Engine, opts Options, logger *slog.Logger) *Transformer {
	return &Transformer{
		engine: eng,
		opts:   opts,
		logger: logger.With("system", "transform"),
	}
}

// Process runs the full pipeline: crop figure images, redact figure and
// redaction regions, detect pages left blank by redaction, delete those
// together with any explicitly selected pages in a single pass, and
// serialize the compacted result.
func (t *Transformer) Process(ctx context.Context, data []byte, in Input) (*Result, error) {
	doc, err := t.engine.Open(data)
	if err != nil {
		if errors.Is(err, engine.ErrUnsupported) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedInput, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	defer doc.Close()

	total := doc.PageCount()

	if err := validatePages(total, in); err != nil {
		return nil, err
	}

	figures, err := t.extractFigures(doc, in.Figures)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blank, err := t.redact(doc, in.Redactions, in.Figures)
	if err != nil {
		return nil, err
	}

	deletions, err := resolveDeletions(total, blank, in.Delete)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(deletions) > 0 {
		if err := doc.DeletePages(deletions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
		}
	}

	out, err := doc.Serialize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	t.logger.Info("transform complete",
		"pages_in", total,
		"pages_out", doc.PageCount(),
		"blank_pages", len(blank),
		"deleted_pages", len(deletions),
		"figure_pages", len(figures),
	)

	return &Result{
		Document:  out,
		Figures:   figures,
		PageCount: doc.PageCount(),
	}, nil
}

// PageImage is one element of a RenderPages sequence. Err is set when a
// page failed to render; the sequence ends after a failed page.
type PageImage struct {
	Image image.Image
	Err   error
}

// RenderPages returns a lazy page-image sequence over the document at the
// given DPI (the reference DPI when dpi is zero or negative). Each iteration
// opens its own handle, yields pages in order, and releases the handle when
// the consumer stops. Ranging over the sequence again re-opens the document.
func (t *Transformer) RenderPages(data []byte, dpi int) iter.Seq2[int, PageImage] {
	if dpi <= 0 {
		dpi = t.opts.ReferenceDPI
	}

	return func(yield func(int, PageImage) bool) {
		doc, err := t.engine.Open(data)
		if err != nil {
			if errors.Is(err, engine.ErrUnsupported) {
				yield(0, PageImage{Err: fmt.Errorf("%w: %v", ErrUnsupportedInput, err)})
			} else {
				yield(0, PageImage{Err: fmt.Errorf("%w: %v", ErrProcessing, err)})
			}
			return
		}
		defer doc.Close()

		for page := range doc.PageCount() {
			img, err := doc.Render(page, dpi)
			if err != nil {
				yield(page, PageImage{Err: fmt.Errorf("%w: page %d: %v", ErrProcessing, page, err)})
				return
			}
			if !yield(page, PageImage{Image: img}) {
				return
			}
		}
	}
}

// extractFigures renders each page holding figure pairs once at the
// reference DPI, then crops the figure and caption regions. Crops are
// padded with a white border.
func (t *Transformer) extractFigures(doc engine.Document, figures FigureMap) (map[int][]FigureImages, error) {
	result := make(map[int][]FigureImages, len(figures))

	for _, page := range sortedKeys(figures) {
		pairs := figures[page]
		if len(pairs) == 0 {
			continue
		}

		img, err := doc.Render(page, t.opts.ReferenceDPI)
		if err != nil {
			return nil, fmt.Errorf("%w: render page %d: %v", ErrProcessing, page, err)
		}

		images := make([]FigureImages, 0, len(pairs))
		for _, pair := range pairs {
			var fi FigureImages

			fi.Figure, err = t.cropRegion(img, pair.Figure)
			if err != nil {
				return nil, fmt.Errorf("%w: figure on page %d: %v", ErrProcessing, page, err)
			}

			if pair.Caption != nil {
				fi.Caption, err = t.cropRegion(img, *pair.Caption)
				if err != nil {
					return nil, fmt.Errorf("%w: caption on page %d: %v", ErrProcessing, page, err)
				}
			}

			images = append(images, fi)
		}
		result[page] = images
	}

	return result, nil
}

func (t *Transformer) cropRegion(img image.Image, r engine.Rect) (image.Image, error) {
	cropped, err := engine.Crop(img, r)
	if err != nil {
		return nil, err
	}
	return engine.PadBorder(cropped, t.opts.BorderWidth, color.White), nil
}

// redact applies redaction and figure regions to their pages and returns
// the pages whose visible text was entirely removed. Only touched pages
// are inspected for blankness.
func (t *Transformer) redact(doc engine.Document, redactions RedactionMap, figures FigureMap) ([]int, error) {
	touched := make(map[int][]engine.Rect)
	for page, rects := range redactions {
		touched[page] = append(touched[page], rects...)
	}
	for page, pairs := range figures {
		for _, pair := range pairs {
			touched[page] = append(touched[page], pair.Figure)
			if pair.Caption != nil {
				touched[page] = append(touched[page], *pair.Caption)
			}
		}
	}

	scale := float64(t.opts.NativeDPI) / float64(t.opts.ReferenceDPI)

	var blank []int
	for _, page := range sortedKeys(touched) {
		for _, r := range touched[page] {
			if err := doc.AddRedaction(page, r.Scale(scale)); err != nil {
				return nil, fmt.Errorf("%w: page %d: %v", ErrProcessing, page, err)
			}
		}

		if err := doc.ApplyRedactions(page); err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrProcessing, page, err)
		}

		text, err := doc.ExtractText(page)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrProcessing, page, err)
		}
		if strings.TrimSpace(text) == "" {
			blank = append(blank, page)
		}
	}

	return blank, nil
}

// resolveDeletions merges redaction-blanked pages with the explicit delete
// selection into one sorted, deduplicated pass.
func resolveDeletions(total int, blank []int, spec *pages.RangeSpec) ([]int, error) {
	selected := make(map[int]bool, len(blank))
	for _, page := range blank {
		selected[page] = true
	}

	if spec != nil && !spec.IsZero() {
		explicit, err := pages.Resolve(total, *spec)
		if err != nil {
			return nil, err
		}
		for _, page := range explicit {
			selected[page] = true
		}
	}

	if len(selected) == 0 {
		return nil, nil
	}

	result := make([]int, 0, len(selected))
	for page := range selected {
		result = append(result, page)
	}
	sort.Ints(result)
	return result, nil
}

// validatePages rejects region maps that reference pages outside the
// document before any rendering work happens.
func validatePages(total int, in Input) error {
	for page := range in.Redactions {
		if page < 0 || page >= total {
			return fmt.Errorf("%w: redaction page %d of %d", ErrInvalidSelection, page, total)
		}
	}
	for page := range in.Figures {
		if page < 0 || page >= total {
			return fmt.Errorf("%w: figure page %d of %d", ErrInvalidSelection, page, total)
		}
	}
	return nil
}

func sortedKeys[T any](m map[int]T) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
