package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"strconv"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// redactionDPI is the raster resolution used when flattening a page to
// apply redactions. Higher values preserve more detail at the cost of
// larger rebuilt pages.
const redactionDPI = 150

// nativeDPI is the PDF point resolution. Redaction rectangles arrive in
// this coordinate space.
const nativeDPI = 72

type mupdf struct {
	logger *slog.Logger
}

// NewMuPDF creates the production document engine. Rendering and text
// extraction use go-fitz; redactions flatten the affected page to a raster,
// paint the redaction rectangles, and rebuild the page via pdfcpu. Text on
// flattened pages is recovered with OCR.
func NewMuPDF(logger *slog.Logger) Engine {
	return &mupdf{logger: logger.With("system", "engine")}
}

func (e *mupdf) Open(data []byte) (Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnsupported)
	}

	fdoc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}

	return &mudoc{
		data:       data,
		fdoc:       fdoc,
		pending:    make(map[int][]Rect),
		rasterized: make(map[int]bool),
		logger:     e.logger,
	}, nil
}

// mudoc tracks the document bytes alongside an open go-fitz handle. Page
// surgery (redaction rebuilds, deletions) operates on the bytes through
// pdfcpu, after which the fitz handle is reopened on the new bytes.
type mudoc struct {
	data       []byte
	fdoc       *fitz.Document
	pending    map[int][]Rect
	rasterized map[int]bool
	closed     bool
	logger     *slog.Logger
}

func (d *mudoc) PageCount() int {
	if d.closed {
		return 0
	}
	return d.fdoc.NumPage()
}

func (d *mudoc) Render(page int, dpi int) (image.Image, error) {
	if err := d.checkPage(page); err != nil {
		return nil, err
	}

	img, err := d.fdoc.ImageDPI(page, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return img, nil
}

func (d *mudoc) ExtractText(page int) (string, error) {
	if err := d.checkPage(page); err != nil {
		return "", err
	}

	if d.rasterized[page] {
		return d.ocrText(page)
	}

	text, err := d.fdoc.Text(page)
	if err != nil {
		return "", fmt.Errorf("extract text page %d: %w", page, err)
	}
	return text, nil
}

func (d *mudoc) AddRedaction(page int, r Rect) error {
	if err := d.checkPage(page); err != nil {
		return err
	}
	if !r.Valid() {
		return fmt.Errorf("%w: %+v", ErrInvalidRect, r)
	}

	d.pending[page] = append(d.pending[page], r)
	return nil
}

// ApplyRedactions flattens the page to a raster with the queued rectangles
// painted out, rebuilds it as an image-only page, and splices it back into
// the document. The go-fitz handle is reopened on the rebuilt bytes.
func (d *mudoc) ApplyRedactions(page int) error {
	if err := d.checkPage(page); err != nil {
		return err
	}

	rects := d.pending[page]
	if len(rects) == 0 {
		return nil
	}

	img, err := d.fdoc.ImageDPI(page, float64(redactionDPI))
	if err != nil {
		return fmt.Errorf("rasterize page %d: %w", page, err)
	}

	scale := float64(redactionDPI) / float64(nativeDPI)
	pixelRects := make([]image.Rectangle, len(rects))
	for i, r := range rects {
		pixelRects[i] = r.Scale(scale).ImageRect()
	}

	flattened := FillRects(img, pixelRects, color.Black)
	pngData, err := EncodePNG(flattened)
	if err != nil {
		return err
	}

	rebuilt, err := d.replacePage(page, pngData)
	if err != nil {
		return fmt.Errorf("rebuild page %d: %w", page, err)
	}

	if err := d.reload(rebuilt); err != nil {
		return err
	}

	delete(d.pending, page)
	d.rasterized[page] = true

	d.logger.Debug("redactions applied", "page", page, "rects", len(rects))
	return nil
}

func (d *mudoc) DeletePages(indices []int) error {
	if d.closed {
		return ErrClosed
	}
	if len(indices) == 0 {
		return nil
	}

	total := d.fdoc.NumPage()
	deleted := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= total {
			return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, idx, total)
		}
		deleted[idx] = true
	}
	if len(deleted) == total {
		return fmt.Errorf("cannot delete all %d pages", total)
	}

	selection := make([]string, 0, len(deleted))
	for idx := range deleted {
		selection = append(selection, strconv.Itoa(idx+1))
	}

	var out bytes.Buffer
	if err := api.RemovePages(bytes.NewReader(d.data), &out, selection, conf()); err != nil {
		return fmt.Errorf("remove pages: %w", err)
	}

	if err := d.reload(out.Bytes()); err != nil {
		return err
	}

	d.shiftPageState(deleted)
	return nil
}

func (d *mudoc) Serialize() ([]byte, error) {
	if d.closed {
		return nil, ErrClosed
	}

	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(d.data), &out, conf()); err != nil {
		return nil, fmt.Errorf("optimize document: %w", err)
	}
	return out.Bytes(), nil
}

func (d *mudoc) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.fdoc.Close()
}

func (d *mudoc) checkPage(page int) error {
	if d.closed {
		return ErrClosed
	}
	if page < 0 || page >= d.fdoc.NumPage() {
		return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, d.fdoc.NumPage())
	}
	return nil
}

// replacePage builds a one-page PDF from the raster and splices it into the
// document in place of the original page.
func (d *mudoc) replacePage(page int, pngData []byte) ([]byte, error) {
	imp, err := api.Import(fmt.Sprintf("dpi:%d", redactionDPI), types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("import config: %w", err)
	}

	var onePage bytes.Buffer
	if err := api.ImportImages(nil, &onePage, []io.Reader{bytes.NewReader(pngData)}, imp, conf()); err != nil {
		return nil, fmt.Errorf("import image: %w", err)
	}

	total := d.fdoc.NumPage()

	var parts []io.ReadSeeker
	if page > 0 {
		before, err := d.trim(fmt.Sprintf("1-%d", page))
		if err != nil {
			return nil, err
		}
		parts = append(parts, bytes.NewReader(before))
	}
	parts = append(parts, bytes.NewReader(onePage.Bytes()))
	if page < total-1 {
		after, err := d.trim(fmt.Sprintf("%d-%d", page+2, total))
		if err != nil {
			return nil, err
		}
		parts = append(parts, bytes.NewReader(after))
	}

	if len(parts) == 1 {
		return onePage.Bytes(), nil
	}

	var merged bytes.Buffer
	if err := api.MergeRaw(parts, &merged, false, conf()); err != nil {
		return nil, fmt.Errorf("merge pages: %w", err)
	}
	return merged.Bytes(), nil
}

// trim extracts the given 1-based page selection into a standalone document.
func (d *mudoc) trim(selection string) ([]byte, error) {
	var out bytes.Buffer
	if err := api.Trim(bytes.NewReader(d.data), &out, []string{selection}, conf()); err != nil {
		return nil, fmt.Errorf("trim pages %s: %w", selection, err)
	}
	return out.Bytes(), nil
}

func (d *mudoc) reload(data []byte) error {
	fdoc, err := fitz.NewFromMemory(data)
	if err != nil {
		return fmt.Errorf("reload document: %w", err)
	}

	d.fdoc.Close()
	d.fdoc = fdoc
	d.data = data
	return nil
}

// shiftPageState remaps rasterized and pending page markers after deletions.
func (d *mudoc) shiftPageState(deleted map[int]bool) {
	rasterized := make(map[int]bool, len(d.rasterized))
	for page := range d.rasterized {
		if deleted[page] {
			continue
		}
		rasterized[page-countBelow(deleted, page)] = true
	}
	d.rasterized = rasterized

	pending := make(map[int][]Rect, len(d.pending))
	for page, rects := range d.pending {
		if deleted[page] {
			continue
		}
		pending[page-countBelow(deleted, page)] = rects
	}
	d.pending = pending
}

func countBelow(deleted map[int]bool, page int) int {
	count := 0
	for idx := range deleted {
		if idx < page {
			count++
		}
	}
	return count
}

// ocrText recovers text from a flattened page. Raster pages have no text
// layer, so extraction falls back to tesseract.
func (d *mudoc) ocrText(page int) (string, error) {
	img, err := d.fdoc.ImageDPI(page, float64(redactionDPI))
	if err != nil {
		return "", fmt.Errorf("rasterize page %d for ocr: %w", page, err)
	}

	pngData, err := EncodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(pngData); err != nil {
		return "", fmt.Errorf("ocr page %d: %w", page, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr page %d: %w", page, err)
	}
	return text, nil
}

func conf() *model.Configuration {
	return model.NewDefaultConfiguration()
}
