// Package enginetest provides an in-memory engine.Engine implementation for
// tests. Documents are JSON page descriptions: each page has dimensions in
// points and positioned text spans. Redactions remove every span their
// rectangle intersects, mirroring how the production engine destroys content
// under a redaction region.
package enginetest

import (
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"github.com/inkblot-io/inkblot/internal/engine"
)

// Text is a positioned text span on a fake page.
type Text struct {
	Value string      `json:"value"`
	At    engine.Rect `json:"at"`
}

// Page describes a fake page in native points.
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Texts  []Text  `json:"texts"`
}

type payload struct {
	Pages []Page `json:"pages"`
}

// Bytes serializes pages into the fake document format accepted by Open.
func Bytes(pages ...Page) []byte {
	data, err := json.Marshal(payload{Pages: pages})
	if err != nil {
		panic(err)
	}
	return data
}

// LetterPage creates a US Letter sized page with the given text spans.
func LetterPage(texts ...Text) Page {
	return Page{Width: 612, Height: 792, Texts: texts}
}

// Engine opens fake documents. The zero value is ready to use.
type Engine struct{}

func (e *Engine) Open(data []byte) (engine.Document, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrUnsupported, err)
	}
	if len(p.Pages) == 0 {
		return nil, fmt.Errorf("%w: no pages", engine.ErrUnsupported)
	}

	return &Document{
		pages:   p.Pages,
		pending: make(map[int][]engine.Rect),
	}, nil
}

// Document is an open fake document.
type Document struct {
	pages   []Page
	pending map[int][]engine.Rect
	closed  bool
}

func (d *Document) PageCount() int {
	if d.closed {
		return 0
	}
	return len(d.pages)
}

func (d *Document) Render(page int, dpi int) (image.Image, error) {
	if err := d.checkPage(page); err != nil {
		return nil, err
	}

	p := d.pages[page]
	scale := float64(dpi) / 72.0
	w := int(p.Width * scale)
	h := int(p.Height * scale)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img, nil
}

func (d *Document) ExtractText(page int) (string, error) {
	if err := d.checkPage(page); err != nil {
		return "", err
	}

	values := make([]string, 0, len(d.pages[page].Texts))
	for _, t := range d.pages[page].Texts {
		values = append(values, t.Value)
	}
	return strings.Join(values, " "), nil
}

func (d *Document) AddRedaction(page int, r engine.Rect) error {
	if err := d.checkPage(page); err != nil {
		return err
	}
	if !r.Valid() {
		return fmt.Errorf("%w: %+v", engine.ErrInvalidRect, r)
	}

	d.pending[page] = append(d.pending[page], r)
	return nil
}

func (d *Document) ApplyRedactions(page int) error {
	if err := d.checkPage(page); err != nil {
		return err
	}

	rects := d.pending[page]
	if len(rects) == 0 {
		return nil
	}

	var kept []Text
	for _, t := range d.pages[page].Texts {
		covered := false
		for _, r := range rects {
			if t.At.Intersects(r) {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, t)
		}
	}

	d.pages[page].Texts = kept
	delete(d.pending, page)
	return nil
}

func (d *Document) DeletePages(indices []int) error {
	if d.closed {
		return engine.ErrClosed
	}
	if len(indices) == 0 {
		return nil
	}

	deleted := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(d.pages) {
			return fmt.Errorf("%w: page %d of %d", engine.ErrPageOutOfRange, idx, len(d.pages))
		}
		deleted[idx] = true
	}
	if len(deleted) == len(d.pages) {
		return fmt.Errorf("cannot delete all %d pages", len(d.pages))
	}

	var kept []Page
	for i, p := range d.pages {
		if !deleted[i] {
			kept = append(kept, p)
		}
	}
	d.pages = kept
	d.pending = make(map[int][]engine.Rect)
	return nil
}

func (d *Document) Serialize() ([]byte, error) {
	if d.closed {
		return nil, engine.ErrClosed
	}
	return Bytes(d.pages...), nil
}

func (d *Document) Close() error {
	d.closed = true
	return nil
}

func (d *Document) checkPage(page int) error {
	if d.closed {
		return engine.ErrClosed
	}
	if page < 0 || page >= len(d.pages) {
		return fmt.Errorf("%w: page %d of %d", engine.ErrPageOutOfRange, page, len(d.pages))
	}
	return nil
}
