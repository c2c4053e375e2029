package api

import (
	"github.com/inkblot-io/inkblot/internal/artifacts"
	"github.com/inkblot-io/inkblot/internal/config"
	"github.com/inkblot-io/inkblot/internal/documents"
	"github.com/inkblot-io/inkblot/internal/engine"
	"github.com/inkblot-io/inkblot/internal/renders"
	"github.com/inkblot-io/inkblot/internal/transform"
	"github.com/inkblot-io/inkblot/pkg/lifecycle"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents  documents.System
	Artifacts  artifacts.System
	Renders    renders.System
	Transforms transform.System

	sweeper *artifacts.Sweeper
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	documentsSys := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	artifactsSys := artifacts.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		cfg.Storage.RetentionAgeDuration(),
	)

	eng := engine.NewMuPDF(runtime.Logger)

	transformer := transform.NewTransformer(eng, transform.Options{
		ReferenceDPI: runtime.Processing.ReferenceDPI,
		NativeDPI:    runtime.Processing.NativeDPI,
		BorderWidth:  runtime.Processing.BorderWidth,
	}, runtime.Logger)

	rendersSys := renders.New(
		eng,
		documentsSys,
		artifactsSys,
		runtime.Logger,
		runtime.Processing.RenderDPI,
		runtime.Processing.Workers,
	)

	transformsSys := transform.New(
		documentsSys,
		artifactsSys,
		transformer,
		runtime.Logger,
	)

	return &Domain{
		Documents:  documentsSys,
		Artifacts:  artifactsSys,
		Renders:    rendersSys,
		Transforms: transformsSys,
		sweeper: artifacts.NewSweeper(
			artifactsSys,
			cfg.Storage.SweepIntervalDuration(),
			runtime.Logger,
		),
	}
}

// Start launches the domain's background work.
func (d *Domain) Start(lc *lifecycle.Coordinator) error {
	return d.sweeper.Start(lc)
}
