package vanilla

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/render"
	rendertemplate "github.com/singampalli/ideaminds/pkg/render/template"
	"github.com/singampalli/ideaminds/pkg/render/template/gotemplate"
)

// Name is the registry identifier of the HTML renderer.
const Name = "vanilla"

// ImageField is the multipart field name used for the attached image.
const ImageField = "image"

const formTemplate = "templates/form.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	policy           *bluemonday.Policy
	classes          ChromeClasses
	submitLabel      string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithHintPolicy overrides the sanitising policy applied to hint text.
func WithHintPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithChromeClasses overrides the CSS classes applied to the form chrome.
func WithChromeClasses(classes ChromeClasses) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithSubmitLabel changes the submit button caption.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			cfg.submitLabel = trimmed
		}
	}
}

// WithInlineStyles embeds the default stylesheet in a <style> block.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// Renderer renders a FormModel as a plain HTML form. Each distinct label gets
// one control whose input name is the label itself, so posted forms decode
// with render.DecodeSubmission.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	policy      *bluemonday.Policy
	classes     map[string]string
	submitLabel string
	stylesheet  string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitLabel: "Generate"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.StrictPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:   renderer,
		policy:      cfg.policy,
		classes:     cfg.classes.resolve(),
		submitLabel: cfg.submitLabel,
	}
	if cfg.inlineStyles {
		r.stylesheet = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML form for form. The form switches to a multipart
// encoding with a file input when the template declares an image placeholder.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(formTemplate, r.viewData(form, opts))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) viewData(form model.FormModel, opts render.RenderOptions) map[string]any {
	method := strings.ToLower(strings.TrimSpace(opts.Method))
	if method == "" {
		method = strings.ToLower(http.MethodPost)
	}

	hiddenInputs := make(map[string]string, len(opts.Hidden)+1)
	if form.TemplateID != "" {
		hiddenInputs[render.TemplateIDField] = form.TemplateID
	}
	for name, value := range opts.Hidden {
		hiddenInputs[name] = value
	}
	hidden := make([]map[string]any, 0, len(hiddenInputs))
	for _, field := range render.SortedHiddenFields(hiddenInputs) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	return map[string]any{
		"form": map[string]any{
			"name":       form.Name,
			"templateId": form.TemplateID,
		},
		"action":       strings.TrimSpace(opts.Action),
		"method":       method,
		"multipart":    form.RequiresImage(),
		"image_field":  ImageField,
		"hidden":       hidden,
		"fields":       r.fieldViews(form, opts),
		"form_errors":  render.MergeFormErrors(nil, opts.FormErrors...),
		"classes":      r.classes,
		"submit_label": r.submitLabel,
		"stylesheet":   r.stylesheet,
	}
}

func (r *Renderer) fieldViews(form model.FormModel, opts render.RenderOptions) []map[string]any {
	views := make([]map[string]any, 0, len(form.Fields))
	seen := make(map[string]struct{}, len(form.Fields))
	ids := make(map[string]int, len(form.Fields))
	for _, field := range form.Fields {
		if _, ok := seen[field.Label]; ok {
			continue
		}
		seen[field.Label] = struct{}{}

		hint := r.policy.Sanitize(strings.TrimSpace(field.Hint))
		views = append(views, map[string]any{
			"id":         uniqueID(ids, controlID(field.Label)),
			"label":      field.Label,
			"value":      opts.Values[field.Label],
			"hint":       hint,
			"hint_text":  html.UnescapeString(hint),
			"required":   field.Required,
			"textarea":   multiline(field.Metadata),
			"input_type": inputType(field.Metadata),
			"errors":     render.MergeFormErrors(nil, opts.Errors[field.Label]...),
		})
	}
	return views
}
