// Package renders rasterizes document pages to PNG images. Rendering fans
// out across a worker pool where each worker holds its own engine handle,
// and the resulting images are cataloged as page artifacts.
package renders

import (
	"github.com/inkblot-io/inkblot/internal/artifacts"
	"github.com/inkblot-io/inkblot/internal/documents"
	"github.com/inkblot-io/inkblot/internal/pages"
)

// RenderCommand describes a render request against an uploaded document.
// Pages selects which pages to rasterize; nil or zero renders every page.
// DPI of 0 uses the configured default resolution.
type RenderCommand struct {
	Name     string
	Filename string
	Data     []byte
	Pages    *pages.RangeSpec
	DPI      int
}

// RenderResult holds the stored document record and its page images in
// page order.
type RenderResult struct {
	Document *documents.Document
	Pages    []*artifacts.Artifact
}
