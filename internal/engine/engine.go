// Package engine defines the document processing boundary: opening PDFs,
// rendering pages, extracting text, applying redactions, and restructuring
// page sets. The mupdf implementation backs it with go-fitz rendering and
// pdfcpu page surgery; core pipelines depend only on the interfaces.
package engine

import "image"

// Engine opens documents from raw bytes.
type Engine interface {
	Open(data []byte) (Document, error)
}

// Document is an open document handle. Page indices are zero-based.
// Implementations are not safe for concurrent use; callers that parallelize
// across pages open one handle per worker.
type Document interface {
	// PageCount returns the current number of pages.
	PageCount() int

	// Render rasterizes a page at the given DPI.
	Render(page int, dpi int) (image.Image, error)

	// ExtractText returns the visible text of a page.
	ExtractText(page int) (string, error)

	// AddRedaction queues a redaction rectangle on a page. Coordinates are
	// in native page points (72 DPI). The content is not removed until
	// ApplyRedactions is called.
	AddRedaction(page int, r Rect) error

	// ApplyRedactions permanently removes content under the queued
	// rectangles of a page. Queued rectangles are consumed.
	ApplyRedactions(page int) error

	// DeletePages removes the given zero-based pages. Remaining pages
	// shift down to fill the gaps.
	DeletePages(indices []int) error

	// Serialize writes the document to bytes, compacting unreferenced
	// objects in the process.
	Serialize() ([]byte, error)

	// Close releases the handle. The document is unusable afterwards.
	Close() error
}
