package renders

import "context"

// System defines the page rendering operation.
type System interface {
	Render(ctx context.Context, cmd RenderCommand) (*RenderResult, error)
}
