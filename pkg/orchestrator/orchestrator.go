package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/goliatone/go-geoidentify/pkg/controller"
	"github.com/goliatone/go-geoidentify/pkg/render"
	"github.com/goliatone/go-geoidentify/pkg/renderers/html"
	"github.com/goliatone/go-geoidentify/pkg/renderers/tui"
	"github.com/goliatone/go-geoidentify/pkg/view"
)

const defaultRendererName = html.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithBackend sets the features/predict backend. Required.
func WithBackend(backend controller.Backend) Option {
	return func(o *Orchestrator) {
		o.backend = backend
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTranslator sets the catalog shared by the controller and the default
// renderers.
func WithTranslator(t render.Translator) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.translator = t
		}
	}
}

// WithHTMLOptions forwards options to the default html renderer.
func WithHTMLOptions(options ...html.Option) Option {
	return func(o *Orchestrator) {
		o.htmlOptions = append(o.htmlOptions, options...)
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator turns a Request into a rendered page. Defaults register the
// html and text renderers.
type Orchestrator struct {
	backend         controller.Backend
	registry        *render.Registry
	defaultRenderer string
	translator      render.Translator
	htmlOptions     []html.Option
	logger          *log.Logger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
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

// Request describes one pass through the controller.
type Request struct {
	// Locale selects the message bundle; empty means the default locale.
	Locale string

	// Selected lists the feature ids to check after loading. Unknown ids are
	// ignored.
	Selected []string

	// Analyze submits the selection after loading.
	Analyze bool

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries per-request theme, action and asset settings.
	RenderOptions render.RenderOptions
}

// Result is the rendered page together with the view it was built from.
type Result struct {
	Body        []byte
	ContentType string
	Page        view.Page
}

// Generate executes the load → select → analyze → render sequence. Backend
// failures end up in Result.Page.Error and the rendered body, not in the
// returned error; the error reports pipeline problems only.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := o.initialiseErr; err != nil {
		return Result{}, err
	}
	if o.backend == nil {
		return Result{}, controller.ErrNoBackend
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return Result{}, err
	}

	ctrl := controller.New(o.backend,
		controller.WithTranslator(o.translator),
		controller.WithLocale(req.Locale),
		controller.WithLogger(o.logger),
	)

	if err := ctrl.LoadFeatures(ctx); err != nil {
		o.logger.Printf("orchestrator: load features: %v", err)
	} else {
		ctrl.SetSelection(req.Selected)
		if req.Analyze {
			if err := ctrl.Analyze(ctx); err != nil {
				o.logger.Printf("orchestrator: analyze: %v", err)
			}
		}
	}

	page := ctrl.Page()
	output, err := renderer.Render(render.WithOptions(ctx, req.RenderOptions), page)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: render output: %w", err)
	}

	return Result{Body: output, ContentType: renderer.ContentType(), Page: page}, nil
}

// Renderers lists the registered renderer names.
func (o *Orchestrator) Renderers() []string {
	if o.registry == nil {
		return nil
	}
	return o.registry.List()
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

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}
	if o.translator == nil {
		o.translator = render.NewCatalog()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		options := append([]html.Option{html.WithTranslator(o.translator)}, o.htmlOptions...)
		renderer, err := html.New(options...)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
		o.registry.MustRegister(tui.NewTextRenderer(o.translator, tui.DefaultTheme()))
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.defaultsApplied = true
}
