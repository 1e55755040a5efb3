package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/singampalli/ideaminds/pkg/inference"
	"github.com/singampalli/ideaminds/pkg/model"
	"github.com/singampalli/ideaminds/pkg/placeholder"
	"github.com/singampalli/ideaminds/pkg/render"
	"github.com/singampalli/ideaminds/pkg/renderers/tui"
	"github.com/singampalli/ideaminds/pkg/renderers/vanilla"
)

const (
	defaultRendererName  = vanilla.Name
	defaultCollectorName = tui.Name
)

var (
	// ErrNoTemplate is returned when a request selects no template.
	ErrNoTemplate = errors.New("orchestrator: a template must be selected")
	// ErrImageRequired is returned when the template declares an image
	// placeholder and the request carries no image.
	ErrImageRequired = errors.New("orchestrator: template expects an attached image")
	// ErrNoTemplateSource is returned when a template id is given but no
	// template source is configured.
	ErrNoTemplateSource = errors.New("orchestrator: template source is not configured")
)

// TemplateSource resolves templates by id. *store.Templates satisfies it.
type TemplateSource interface {
	Get(ctx context.Context, id string) (model.Template, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithTemplateSource injects the store templates are resolved from.
func WithTemplateSource(source TemplateSource) Option {
	return func(o *Orchestrator) {
		o.templates = source
	}
}

// WithInference registers client as the default inference backend.
func WithInference(client inference.Client) Option {
	return func(o *Orchestrator) {
		o.inference = client
	}
}

// WithBackends injects a registry of named inference backends selectable per
// request.
func WithBackends(backends *BackendRegistry) Option {
	return func(o *Orchestrator) {
		o.backends = backends
	}
}

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer Form uses when a request omits
// an explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithDefaultCollector overrides the collector Generate uses when a request
// carries no values and names no collector.
func WithDefaultCollector(name string) Option {
	return func(o *Orchestrator) {
		o.defaultCollector = name
	}
}

// WithSchemaTransformer registers a Transformer that can mutate form models
// after building but before decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithUIDecorators registers decorators that run against the derived form
// model before rendering or collection.
func WithUIDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithSubstituteAll replaces every occurrence of a repeated placeholder
// instead of only the first.
func WithSubstituteAll(enabled bool) Option {
	return func(o *Orchestrator) {
		o.substituteAll = enabled
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the full pipeline from template to generated
// text. It applies sensible defaults (placeholder builder, vanilla renderer)
// while remaining open to dependency injection for advanced callers.
type Orchestrator struct {
	templates        TemplateSource
	inference        inference.Client
	backends         *BackendRegistry
	builder          model.Builder
	registry         *render.Registry
	defaultRenderer  string
	defaultCollector string
	transformer      Transformer
	decorators       []model.Decorator
	substituteAll    bool
	logger           *zap.Logger
	initialiseErr    error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer:  defaultRendererName,
		defaultCollector: defaultCollectorName,
		logger:           zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes a generation or form rendering call.
type Request struct {
	// TemplateID selects a stored template. Ignored when Template is set.
	TemplateID string

	// Template supplies the template inline, bypassing the source.
	Template *model.Template

	// Values holds the field values keyed by label. When nil, Generate
	// collects them interactively through the collector.
	Values model.FormValues

	// Image is the uploaded attachment for templates declaring an image
	// placeholder.
	Image *inference.Image

	// Renderer names the renderer Form uses.
	Renderer string

	// Collector names the renderer Generate collects values through.
	Collector string

	// Backend names the inference backend. Empty selects the default client.
	Backend string

	// RenderOptions carries per-request instructions such as prefilled values
	// or server-side errors.
	RenderOptions render.RenderOptions
}

// Result is the outcome of a generation.
type Result struct {
	Form   model.FormModel
	Values model.FormValues
	Prompt string
	Output string
}

// Generate resolves the template, gathers and validates values, composes the
// prompt and sends it to the inference backend.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	result, err := o.Compose(ctx, req)
	if err != nil {
		return result, err
	}

	client, err := o.clientFor(req.Backend)
	if err != nil {
		return result, err
	}

	output, err := client.Generate(ctx, inference.Request{Prompt: result.Prompt, Image: req.Image})
	if err != nil {
		o.logger.Warn("generation failed", zap.String("template", result.Form.TemplateID), zap.Error(err))
		return result, fmt.Errorf("orchestrator: generate: %w", err)
	}
	result.Output = output

	o.logger.Info("generation completed",
		zap.String("template", result.Form.TemplateID),
		zap.Int("fields", len(result.Form.Fields)),
		zap.Bool("image", req.Image != nil))
	return result, nil
}

// Compose runs every step of Generate except inference and returns the
// composed prompt.
func (o *Orchestrator) Compose(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}

	tpl, err := o.resolveTemplate(ctx, req)
	if err != nil {
		return Result{}, err
	}
	form, err := o.buildForm(ctx, tpl)
	if err != nil {
		return Result{}, err
	}
	result := Result{Form: form}

	if form.RequiresImage() && (req.Image == nil || len(req.Image.Data) == 0) {
		return result, ErrImageRequired
	}

	values := req.Values
	if values == nil {
		values, err = o.collect(ctx, form, req)
		if err != nil {
			return result, err
		}
	}
	values = canonicalValues(form, values)
	result.Values = values

	if err := render.ValidateRequired(form, values); err != nil {
		return result, fmt.Errorf("orchestrator: %w", err)
	}

	if o.substituteAll {
		result.Prompt = placeholder.SubstituteAll(tpl.Content, values)
	} else {
		result.Prompt = placeholder.Substitute(tpl.Content, values)
	}
	return result, nil
}

// Form resolves the template and renders its form with the named renderer.
func (o *Orchestrator) Form(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	tpl, err := o.resolveTemplate(ctx, req)
	if err != nil {
		return nil, err
	}
	form, err := o.buildForm(ctx, tpl)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Values == nil && req.Values != nil {
		options.Values = req.Values
	}
	output, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// FormModel resolves the template and returns its decorated form model.
func (o *Orchestrator) FormModel(ctx context.Context, req Request) (model.FormModel, error) {
	tpl, err := o.resolveTemplate(ctx, req)
	if err != nil {
		return model.FormModel{}, err
	}
	return o.buildForm(ctx, tpl)
}

func (o *Orchestrator) resolveTemplate(ctx context.Context, req Request) (model.Template, error) {
	if req.Template != nil {
		return *req.Template, nil
	}
	id := strings.TrimSpace(req.TemplateID)
	if id == "" {
		return model.Template{}, ErrNoTemplate
	}
	if o.templates == nil {
		return model.Template{}, ErrNoTemplateSource
	}
	tpl, err := o.templates.Get(ctx, id)
	if err != nil {
		return model.Template{}, fmt.Errorf("orchestrator: load template %q: %w", id, err)
	}
	if tpl.ID == "" {
		tpl.ID = id
	}
	return tpl, nil
}

func (o *Orchestrator) buildForm(ctx context.Context, tpl model.Template) (model.FormModel, error) {
	form := o.builder.Build(tpl)
	if err := o.applyTransformer(ctx, &form); err != nil {
		return model.FormModel{}, err
	}
	if err := o.applyDecorators(&form); err != nil {
		return model.FormModel{}, err
	}
	return form, nil
}

func (o *Orchestrator) collect(ctx context.Context, form model.FormModel, req Request) (model.FormValues, error) {
	name := req.Collector
	if name == "" {
		name = o.defaultCollector
	}
	collector, err := o.registry.Collector(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: collector %q: %w", name, err)
	}
	values, err := collector.Collect(ctx, form, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: collect values: %w", err)
	}
	return values, nil
}

// canonicalValues rekeys values whose key differs from a field label only by
// case or whitespace ("team name" for "Team Name").
func canonicalValues(form model.FormModel, values model.FormValues) model.FormValues {
	out := make(model.FormValues, len(values))
	byKey := make(map[string]string, len(values))
	for key, value := range values {
		out[key] = value
		byKey[placeholder.SubstitutionKey(strings.TrimSpace(key))] = value
	}
	for _, label := range form.Labels() {
		if _, ok := out[label]; ok {
			continue
		}
		if value, ok := byKey[placeholder.SubstitutionKey(label)]; ok {
			out[label] = value
		}
	}
	return out
}

func (o *Orchestrator) clientFor(name string) (inference.Client, error) {
	if name != "" {
		if o.backends == nil {
			return nil, fmt.Errorf("orchestrator: backend %q: no backends registered", name)
		}
		client, err := o.backends.Get(name)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	if o.inference != nil {
		return o.inference, nil
	}
	if o.backends != nil {
		if names := o.backends.List(); len(names) > 0 {
			return o.backends.Get(names[0])
		}
	}
	return nil, errors.New("orchestrator: inference client is not configured")
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(form *model.FormModel) error {
	if len(o.decorators) == 0 || form == nil {
		return nil
	}
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.FormModel) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(tui.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.defaultCollector == "" {
		o.defaultCollector = defaultCollectorName
	}
}
