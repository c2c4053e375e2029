package renders

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/inkblot-io/inkblot/internal/artifacts"
	"github.com/inkblot-io/inkblot/internal/documents"
	"github.com/inkblot-io/inkblot/internal/engine"
	"github.com/inkblot-io/inkblot/internal/pages"
)

const maxRenderDPI = 600

type renderTask struct {
	page int
	data []byte
	err  error
}

type repo struct {
	engine     engine.Engine
	documents  documents.System
	artifacts  artifacts.System
	logger     *slog.Logger
	defaultDPI int
	workers    int
}

// New creates a render system. defaultDPI is used when a command does not
// specify a resolution; workers of 0 sizes the pool from the host CPU count.
func New(
	eng engine.Engine,
	docs documents.System,
	arts artifacts.System,
	logger *slog.Logger,
	defaultDPI int,
	workers int,
) System {
	return &repo{
		engine:     eng,
		documents:  docs,
		artifacts:  arts,
		logger:     logger.With("system", "renders"),
		defaultDPI: defaultDPI,
		workers:    workers,
	}
}

func (r *repo) Render(ctx context.Context, cmd RenderCommand) (*RenderResult, error) {
	dpi := cmd.DPI
	if dpi == 0 {
		dpi = r.defaultDPI
	}
	if dpi < 1 || dpi > maxRenderDPI {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDPI, dpi)
	}

	doc, err := r.documents.Create(ctx, documents.CreateCommand{
		Name:     cmd.Name,
		Filename: cmd.Filename,
		Data:     cmd.Data,
	})
	if err != nil {
		return nil, err
	}

	selected, err := r.selectPages(doc.PageCount, cmd.Pages)
	if err != nil {
		return nil, err
	}

	workerCount := r.workerCount(len(selected))
	tasks := make(chan int, len(selected))
	results := make(chan renderTask, len(selected))

	var wg sync.WaitGroup
	for range workerCount {
		wg.Go(func() {
			r.renderWorker(ctx, cmd.Data, dpi, tasks, results)
		})
	}

	for _, page := range selected {
		tasks <- page
	}
	close(tasks)

	go func() {
		wg.Wait()
		close(results)
	}()

	// stage the rendered pages; artifacts are recorded only once the
	// whole render succeeds, so a failed render leaves nothing behind
	resultMap := make(map[int][]byte, len(selected))
	for task := range results {
		if task.err != nil {
			return nil, task.err
		}
		resultMap[task.page] = task.data
	}

	rendered := make([]*artifacts.Artifact, 0, len(selected))
	for _, page := range selected {
		art, err := r.artifacts.Create(ctx, artifacts.CreateCommand{
			DocumentID:  doc.ID,
			Kind:        artifacts.KindPage,
			PageNumber:  &page,
			ContentType: "image/png",
			Data:        resultMap[page],
		})
		if err != nil {
			r.discard(ctx, rendered)
			return nil, err
		}
		rendered = append(rendered, art)
	}

	r.logger.Info("render complete",
		"document_id", doc.ID,
		"pages", len(rendered),
		"dpi", dpi,
		"workers", workerCount,
	)

	return &RenderResult{Document: doc, Pages: rendered}, nil
}

// renderWorker opens its own engine handle; document handles are not safe
// for concurrent use.
func (r *repo) renderWorker(
	ctx context.Context,
	data []byte,
	dpi int,
	tasks <-chan int,
	results chan<- renderTask,
) {
	doc, err := r.engine.Open(data)
	if err != nil {
		for page := range tasks {
			results <- renderTask{
				page: page,
				err:  fmt.Errorf("%w: %v", ErrRenderFailed, err),
			}
		}
		return
	}
	defer doc.Close()

	for page := range tasks {
		select {
		case <-ctx.Done():
			results <- renderTask{page: page, err: ctx.Err()}
			return
		default:
		}

		png, err := r.renderPage(doc, page, dpi)
		results <- renderTask{page: page, data: png, err: err}
	}
}

func (r *repo) renderPage(doc engine.Document, page, dpi int) ([]byte, error) {
	img, err := doc.Render(page, dpi)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %v", ErrRenderFailed, page, err)
	}

	data, err := engine.EncodePNG(img)
	if err != nil {
		return nil, fmt.Errorf("%w: encode page %d: %v", ErrRenderFailed, page, err)
	}
	return data, nil
}

// discard removes artifacts recorded before a failure.
func (r *repo) discard(ctx context.Context, created []*artifacts.Artifact) {
	for _, art := range created {
		if err := r.artifacts.Delete(ctx, art.ID); err != nil {
			r.logger.Error("discard artifact failed", "artifact_id", art.ID, "error", err)
		}
	}
}

func (r *repo) selectPages(total int, spec *pages.RangeSpec) ([]int, error) {
	if spec == nil || spec.IsZero() {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	return pages.Resolve(total, *spec)
}

func (r *repo) workerCount(pageCount int) int {
	workers := r.workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return max(min(workers, pageCount), 1)
}
