package render

import (
	"context"

	"github.com/singampalli/ideaminds/pkg/model"
)

// Renderer converts a FormModel into a byte representation (HTML, JSON, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}

// Collector gathers FormValues for a form interactively. Renderers that drive
// a live session (the terminal renderer) implement it alongside Renderer.
type Collector interface {
	Collect(ctx context.Context, form model.FormModel, options RenderOptions) (model.FormValues, error)
}
