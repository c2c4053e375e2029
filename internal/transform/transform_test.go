package transform_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/inkblot-io/inkblot/internal/engine"
	"github.com/inkblot-io/inkblot/internal/engine/enginetest"
	"github.com/inkblot-io/inkblot/internal/pages"
	"github.com/inkblot-io/inkblot/internal/transform"
)

func newTransformer() *transform.Transformer {
	return transform.NewTransformer(
		&enginetest.Engine{},
		transform.DefaultOptions(),
		slog.New(slog.DiscardHandler),
	)
}

// client coordinates are 96 DPI; pages are stored in 72 DPI points, so a
// client rect covers the native rect at 3/4 scale.
func clientRect(l, t, r, b float64) engine.Rect {
	scale := 96.0 / 72.0
	return engine.Rect{Left: l * scale, Top: t * scale, Right: r * scale, Bottom: b * scale}
}

func pageTexts(t *testing.T, data []byte, page int) string {
	t.Helper()

	var eng enginetest.Engine
	doc, err := eng.Open(data)
	if err != nil {
		t.Fatalf("reopen result: %v", err)
	}
	defer doc.Close()

	text, err := doc.ExtractText(page)
	if err != nil {
		t.Fatalf("extract page %d: %v", page, err)
	}
	return text
}

func TestProcess_RedactionRemovesBlankPages(t *testing.T) {
	data := enginetest.Bytes(
		enginetest.LetterPage(enginetest.Text{Value: "keep", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
		enginetest.LetterPage(enginetest.Text{Value: "secret", At: engine.Rect{Left: 100, Top: 100, Right: 200, Bottom: 150}}),
		enginetest.LetterPage(enginetest.Text{Value: "tail", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
	)

	result, err := newTransformer().Process(context.Background(), data, transform.Input{
		Redactions: transform.RedactionMap{
			1: {clientRect(100, 100, 200, 150)},
		},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", result.PageCount)
	}
	if got := pageTexts(t, result.Document, 0); got != "keep" {
		t.Errorf("page 0 text = %q, want %q", got, "keep")
	}
	if got := pageTexts(t, result.Document, 1); got != "tail" {
		t.Errorf("page 1 text = %q, want %q", got, "tail")
	}
}

func TestProcess_PartialRedactionKeepsPage(t *testing.T) {
	data := enginetest.Bytes(
		enginetest.LetterPage(
			enginetest.Text{Value: "secret", At: engine.Rect{Left: 100, Top: 100, Right: 200, Bottom: 150}},
			enginetest.Text{Value: "visible", At: engine.Rect{Left: 100, Top: 400, Right: 200, Bottom: 450}},
		),
	)

	result, err := newTransformer().Process(context.Background(), data, transform.Input{
		Redactions: transform.RedactionMap{
			0: {clientRect(100, 100, 200, 150)},
		},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", result.PageCount)
	}
	if got := pageTexts(t, result.Document, 0); got != "visible" {
		t.Errorf("page 0 text = %q, want %q", got, "visible")
	}
}

func TestProcess_FigureExtraction(t *testing.T) {
	data := enginetest.Bytes(
		enginetest.LetterPage(
			enginetest.Text{Value: "figure-content", At: engine.Rect{Left: 100, Top: 100, Right: 200, Bottom: 200}},
			enginetest.Text{Value: "caption-content", At: engine.Rect{Left: 100, Top: 210, Right: 200, Bottom: 230}},
			enginetest.Text{Value: "body", At: engine.Rect{Left: 50, Top: 500, Right: 300, Bottom: 550}},
		),
	)

	caption := engine.Rect{Left: 100, Top: 280, Right: 300, Bottom: 310}
	result, err := newTransformer().Process(context.Background(), data, transform.Input{
		Figures: transform.FigureMap{
			0: {
				{Figure: engine.Rect{Left: 100, Top: 100, Right: 300, Bottom: 280}, Caption: &caption},
				{Figure: engine.Rect{Left: 400, Top: 100, Right: 500, Bottom: 200}},
			},
		},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	pairs := result.Figures[0]
	if len(pairs) != 2 {
		t.Fatalf("figures on page 0 = %d, want 2", len(pairs))
	}

	// crop size plus a 10px border on every side
	first := pairs[0].Figure.Bounds()
	if first.Dx() != 220 || first.Dy() != 200 {
		t.Errorf("first figure = %dx%d, want 220x200", first.Dx(), first.Dy())
	}
	cap := pairs[0].Caption.Bounds()
	if cap.Dx() != 220 || cap.Dy() != 50 {
		t.Errorf("caption = %dx%d, want 220x50", cap.Dx(), cap.Dy())
	}
	if pairs[1].Caption != nil {
		t.Error("second pair caption should be nil")
	}

	// figure regions are redacted from the source document
	if got := pageTexts(t, result.Document, 0); got != "body" {
		t.Errorf("page 0 text = %q, want %q", got, "body")
	}
}

func TestProcess_FigureRedactionBlanksPage(t *testing.T) {
	data := enginetest.Bytes(
		enginetest.LetterPage(enginetest.Text{Value: "only-a-figure", At: engine.Rect{Left: 100, Top: 100, Right: 200, Bottom: 200}}),
		enginetest.LetterPage(enginetest.Text{Value: "body", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
	)

	result, err := newTransformer().Process(context.Background(), data, transform.Input{
		Figures: transform.FigureMap{
			0: {{Figure: engine.Rect{Left: 100, Top: 100, Right: 200, Bottom: 200}}},
		},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", result.PageCount)
	}
	if len(result.Figures[0]) != 1 {
		t.Errorf("figures on page 0 = %d, want 1", len(result.Figures[0]))
	}
	if got := pageTexts(t, result.Document, 0); got != "body" {
		t.Errorf("page 0 text = %q, want %q", got, "body")
	}
}

func TestProcess_UnifiedDeletion(t *testing.T) {
	// page 1 goes blank from redaction and is also inside the delete range;
	// both must resolve into a single pass.
	data := enginetest.Bytes(
		enginetest.LetterPage(enginetest.Text{Value: "p0", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
		enginetest.LetterPage(enginetest.Text{Value: "p1", At: engine.Rect{Left: 100, Top: 100, Right: 200, Bottom: 150}}),
		enginetest.LetterPage(enginetest.Text{Value: "p2", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
		enginetest.LetterPage(enginetest.Text{Value: "p3", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
	)

	start, end := 1, 2
	result, err := newTransformer().Process(context.Background(), data, transform.Input{
		Redactions: transform.RedactionMap{
			1: {clientRect(100, 100, 200, 150)},
		},
		Delete: &pages.RangeSpec{Start: &start, End: &end},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.PageCount != 2 {
		t.Fatalf("PageCount = %d, want 2", result.PageCount)
	}
	if got := pageTexts(t, result.Document, 0); got != "p0" {
		t.Errorf("page 0 text = %q, want %q", got, "p0")
	}
	if got := pageTexts(t, result.Document, 1); got != "p3" {
		t.Errorf("page 1 text = %q, want %q", got, "p3")
	}
}

func TestProcess_ExplicitDeletionOnly(t *testing.T) {
	data := enginetest.Bytes(
		enginetest.LetterPage(enginetest.Text{Value: "p0", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
		enginetest.LetterPage(enginetest.Text{Value: "p1", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
		enginetest.LetterPage(enginetest.Text{Value: "p2", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
	)

	result, err := newTransformer().Process(context.Background(), data, transform.Input{
		Delete: &pages.RangeSpec{Pages: []int{2, 0, 2}},
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if result.PageCount != 1 {
		t.Fatalf("PageCount = %d, want 1", result.PageCount)
	}
	if got := pageTexts(t, result.Document, 0); got != "p1" {
		t.Errorf("page 0 text = %q, want %q", got, "p1")
	}
}

func TestProcess_Errors(t *testing.T) {
	valid := enginetest.Bytes(
		enginetest.LetterPage(enginetest.Text{Value: "p0", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
	)

	tests := []struct {
		name string
		data []byte
		in   transform.Input
		want error
	}{
		{
			name: "unsupported input",
			data: []byte("not a document"),
			want: transform.ErrUnsupportedInput,
		},
		{
			name: "redaction page out of range",
			data: valid,
			in: transform.Input{
				Redactions: transform.RedactionMap{5: {clientRect(0, 0, 10, 10)}},
			},
			want: transform.ErrInvalidSelection,
		},
		{
			name: "figure page out of range",
			data: valid,
			in: transform.Input{
				Figures: transform.FigureMap{3: {{Figure: clientRect(0, 0, 10, 10)}}},
			},
			want: transform.ErrInvalidSelection,
		},
		{
			name: "delete start beyond document",
			data: valid,
			in: transform.Input{
				Delete: &pages.RangeSpec{Start: intPtr(9)},
			},
			want: transform.ErrInvalidSelection,
		},
		{
			name: "delete pages all out of range",
			data: valid,
			in: transform.Input{
				Delete: &pages.RangeSpec{Pages: []int{7, 8}},
			},
			want: transform.ErrInvalidSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTransformer().Process(context.Background(), tt.data, tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("Process() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := enginetest.Bytes(
		enginetest.LetterPage(enginetest.Text{Value: "p0", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
	)

	_, err := newTransformer().Process(ctx, data, transform.Input{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
}

func TestProcess_CompactionIdempotent(t *testing.T) {
	data := enginetest.Bytes(
		enginetest.LetterPage(enginetest.Text{Value: "body", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
		enginetest.LetterPage(enginetest.Text{Value: "tail", At: engine.Rect{Left: 50, Top: 400, Right: 100, Bottom: 420}}),
	)

	first, err := newTransformer().Process(context.Background(), data, transform.Input{})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	second, err := newTransformer().Process(context.Background(), first.Document, transform.Input{})
	if err != nil {
		t.Fatalf("Process() on compacted document error = %v", err)
	}

	if !bytes.Equal(first.Document, second.Document) {
		t.Error("second compaction changed the document")
	}

	if second.PageCount != first.PageCount {
		t.Errorf("PageCount = %d, want %d", second.PageCount, first.PageCount)
	}

	if got := pageTexts(t, second.Document, 0); got != "body" {
		t.Errorf("page 0 text = %q, want %q", got, "body")
	}
	if got := pageTexts(t, second.Document, 1); got != "tail" {
		t.Errorf("page 1 text = %q, want %q", got, "tail")
	}
}

func TestRenderPages_AllPagesInOrder(t *testing.T) {
	data := enginetest.Bytes(
		enginetest.LetterPage(enginetest.Text{Value: "p0", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
		enginetest.LetterPage(enginetest.Text{Value: "p1", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
	)

	tr := newTransformer()

	var indices []int
	for page, pi := range tr.RenderPages(data, 0) {
		if pi.Err != nil {
			t.Fatalf("page %d render error: %v", page, pi.Err)
		}
		// letter page at the 96 DPI default
		bounds := pi.Image.Bounds()
		if bounds.Dx() != 816 || bounds.Dy() != 1056 {
			t.Errorf("page %d bounds = %dx%d, want 816x1056", page, bounds.Dx(), bounds.Dy())
		}
		indices = append(indices, page)
	}

	if len(indices) != 2 || indices[0] != 0 || indices[1] != 1 {
		t.Errorf("page indices = %v, want [0 1]", indices)
	}
}

func TestRenderPages_Restartable(t *testing.T) {
	data := enginetest.Bytes(
		enginetest.LetterPage(enginetest.Text{Value: "p0", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
		enginetest.LetterPage(enginetest.Text{Value: "p1", At: engine.Rect{Left: 50, Top: 50, Right: 100, Bottom: 70}}),
	)

	seq := newTransformer().RenderPages(data, 72)

	for page, pi := range seq {
		if pi.Err != nil {
			t.Fatalf("page %d render error: %v", page, pi.Err)
		}
		break
	}

	var count int
	for _, pi := range seq {
		if pi.Err != nil {
			t.Fatalf("render error on second pass: %v", pi.Err)
		}
		if pi.Image.Bounds().Dx() != 612 {
			t.Errorf("width = %d, want 612 at 72 DPI", pi.Image.Bounds().Dx())
		}
		count++
	}

	if count != 2 {
		t.Errorf("second pass yielded %d pages, want 2", count)
	}
}

func TestRenderPages_UnsupportedInput(t *testing.T) {
	var got error
	for _, pi := range newTransformer().RenderPages([]byte("not a document"), 96) {
		got = pi.Err
	}

	if !errors.Is(got, transform.ErrUnsupportedInput) {
		t.Errorf("error = %v, want ErrUnsupportedInput", got)
	}
}

func intPtr(v int) *int { return &v }
