// Package ideaminds exposes the common entry points of the module: turning a
// prompt template into a form, filling it and rendering it.
package ideaminds

import (
	"context"
	"io/fs"

	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/orchestrator"
	"github.com/singampalli/ideaminds/pkg/placeholder"
	"github.com/singampalli/ideaminds/pkg/render"
	"github.com/singampalli/ideaminds/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Fields derives the form fields for content, one per placeholder occurrence.
func Fields(content string) []model.Field {
	return placeholder.Derive(content)
}

// Fill substitutes values (keyed by field label) into content. Only the first
// occurrence of a repeated placeholder is replaced.
func Fill(content string, values model.FormValues) string {
	return placeholder.Substitute(content, values)
}

// GenerateHTML renders the form for an inline template with the named
// renderer. An empty rendererName selects the vanilla HTML renderer.
func GenerateHTML(ctx context.Context, tpl model.Template, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Form(ctx, orchestrator.Request{
		Template: &tpl,
		Renderer: rendererName,
	})
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// StylesFS exposes the default stylesheet of the vanilla renderer.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(ideaminds.StylesFS()),
//	  ),
//	)
func StylesFS() fs.FS {
	return vanilla.AssetsFS()
}
